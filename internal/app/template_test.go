package app

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/shopspring/decimal"
)

func testTemplateFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{ define "base" }}<html><title>{{ block "title" . }}Default{{ end }}</title><body>{{ block "content" . }}{{ end }}</body></html>{{ end }}`),
		},
		"templates/partials/badge.html": &fstest.MapFile{
			Data: []byte(`{{ define "partials/badge.html" }}<span>{{ . }}</span>{{ end }}`),
		},
		"templates/caste/list.html": &fstest.MapFile{
			Data: []byte(`{{ define "title" }}Castes{{ end }}{{ define "content" }}{{ template "partials/badge.html" .Label }}{{ end }}{{ template "base" . }}`),
		},
	}
}

func TestRendererExecutesPageWithLayoutAndPartial(t *testing.T) {
	r, err := NewTemplateRenderer(testTemplateFS(), false)
	if err != nil {
		t.Fatalf("NewTemplateRenderer: %v", err)
	}

	rec := httptest.NewRecorder()
	inst := r.Instance("caste/list.html", map[string]any{"Label": "active"})
	if err := inst.Render(rec); err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<title>Castes</title>") {
		t.Errorf("page did not override the title block: %s", body)
	}
	if !strings.Contains(body, "<span>active</span>") {
		t.Errorf("partial did not render: %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != htmlContentType {
		t.Errorf("content type = %q", ct)
	}
}

func TestRendererUnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer(testTemplateFS(), false)
	if err != nil {
		t.Fatalf("NewTemplateRenderer: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := r.Instance("missing/page.html", nil).Render(rec); err == nil {
		t.Error("Render succeeded for a template that does not exist")
	}
}

func TestTemplateHelpers(t *testing.T) {
	funcs := templateFuncMap()

	formatDate := funcs["formatDate"].(func(string) string)
	if got := formatDate("2026-03-14T09:30:00Z"); got != "2026-03-14 09:30" {
		t.Errorf("formatDate = %q", got)
	}
	if got := formatDate("not a date"); got != "not a date" {
		t.Errorf("formatDate passthrough = %q", got)
	}

	money := funcs["money"].(func(decimal.Decimal) string)
	if got := money(decimal.RequireFromString("1234.5")); got != "1234.50" {
		t.Errorf("money = %q", got)
	}

	seq := funcs["seq"].(func(int, int) []int)
	if got := seq(1, 3); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("seq = %v", got)
	}
	if got := seq(3, 1); got != nil {
		t.Errorf("seq backwards = %v", got)
	}
}
