package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/notify"
)

func TestResourceListPostsFlattenedQuery(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"status":200,"data":{"docs":[{"_id":"s1","name":"Kokanastha"}],"totalDocs":1,"page":2,"limit":10,"totalPages":3}}`))
	})

	res := NewResource[domain.Subcaste](client, "subcaste", "subcastes", Endpoints{List: "/fetchAllSubcastes"})
	q := domain.DefaultListQuery(10)
	q.Search = "kok"
	q.Page = 2
	q = q.WithFilter("casteId", "c9")

	page, err := res.List(testCtx(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/admin/fetchAllSubcastes" {
		t.Errorf("path = %s", gotPath)
	}
	if gotBody["search"] != "kok" || gotBody["page"] != float64(2) || gotBody["limit"] != float64(10) {
		t.Errorf("query body = %v", gotBody)
	}
	if gotBody["casteId"] != "c9" {
		t.Errorf("filter not flattened into body: %v", gotBody)
	}
	if page.TotalDocs != 1 || len(page.Docs) != 1 || page.Docs[0].Name != "Kokanastha" {
		t.Errorf("page = %+v", page)
	}
}

func TestResourceUpdateAndDeleteAppendID(t *testing.T) {
	var gotPaths []string
	var gotMethods []string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		gotMethods = append(gotMethods, r.Method)
		w.Write([]byte(`{"status":200,"data":{"_id":"c1"}}`))
	})

	res := NewResource[domain.Caste](client, "caste", "castes", Endpoints{
		Update: "/updateCaste",
		Delete: "/deleteCaste",
	})

	if _, err := res.Update(testCtx(), "c1", map[string]string{"name": "Updated"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := res.Delete(testCtx(), "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []string{"/admin/updateCaste/c1", "/admin/deleteCaste/c1"}
	for i, p := range want {
		if gotPaths[i] != p {
			t.Errorf("call %d path = %s, want %s", i, gotPaths[i], p)
		}
	}
	if gotMethods[0] != http.MethodPut || gotMethods[1] != http.MethodDelete {
		t.Errorf("methods = %v", gotMethods)
	}
}

func TestResourceSetActiveSendsIDAndFlag(t *testing.T) {
	var gotBody map[string]any
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"status":200,"data":true}`))
	})

	res := NewResource[domain.Job](client, "job", "jobs", Endpoints{Toggle: "/jobPortal/deactivateJob"})
	if err := res.SetActive(testCtx(), "j7", false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if gotBody["_id"] != "j7" || gotBody["isActive"] != false {
		t.Errorf("toggle body = %v", gotBody)
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("disk read failed") }

func TestResourceCreateMultipartEncodeFailureNotifiesOnce(t *testing.T) {
	var backendCalls int
	client, notifier, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		backendCalls++
		w.Write([]byte(`{"status":201,"data":{"_id":"circ1"}}`))
	})

	res := NewResource[domain.Circular](client, "circular", "circulars", Endpoints{Create: "/createCircular"})
	form := NewForm().
		Set("title", "Annual meet").
		File("file", "notice.pdf", brokenReader{})

	_, err := res.CreateMultipart(testCtx(), form)
	if err == nil {
		t.Fatal("CreateMultipart succeeded with a broken file reader")
	}
	if !domain.IsValidation(err) {
		t.Errorf("error = %v, want validation", err)
	}
	if backendCalls != 0 {
		t.Errorf("backend called %d times, want 0", backendCalls)
	}

	toasts := notifier.all()
	if len(toasts) != 1 {
		t.Fatalf("got %d toasts, want exactly 1", len(toasts))
	}
	if toasts[0].sessionID != "sess-1" || toasts[0].severity != notify.SeverityWarning {
		t.Errorf("toast = %+v", toasts[0])
	}
	if !strings.Contains(toasts[0].message, "disk read failed") {
		t.Errorf("toast message = %q", toasts[0].message)
	}
}

func TestResourceCreateMultipartEncodesFormAndFile(t *testing.T) {
	var gotContentType string
	var gotTitle, gotFilename, gotFileContent string
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotTitle = r.FormValue("title")
			if file, header, err := r.FormFile("file"); err == nil {
				gotFilename = header.Filename
				raw, _ := io.ReadAll(file)
				gotFileContent = string(raw)
				file.Close()
			}
		}
		w.Write([]byte(`{"status":201,"data":{"_id":"circ1"}}`))
	})

	res := NewResource[domain.Circular](client, "circular", "circulars", Endpoints{Create: "/createCircular"})
	form := NewForm().
		Set("title", "Annual meet").
		File("file", "notice.pdf", strings.NewReader("pdf-bytes"))

	created, err := res.CreateMultipart(testCtx(), form)
	if err != nil {
		t.Fatalf("CreateMultipart: %v", err)
	}
	if created.ID != "circ1" {
		t.Errorf("created = %+v", created)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotTitle != "Annual meet" || gotFilename != "notice.pdf" || gotFileContent != "pdf-bytes" {
		t.Errorf("form fields: title=%q file=%q content=%q", gotTitle, gotFilename, gotFileContent)
	}
}
