package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

var testSheet = Sheet{
	Name:    "Castes",
	Headers: []string{"ID", "Name", "Created"},
	Rows: [][]string{
		{"c1", "Brahmin", "2026-01-02"},
		{"c2", "Kshatriya, East", "2026-01-03"},
	},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"xlsx", FormatXLSX},
		{"csv", FormatCSV},
		{"", FormatCSV},
		{"pdf", FormatCSV},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilenameAndContentType(t *testing.T) {
	if got := FormatXLSX.Filename("castes"); got != "castes.xlsx" {
		t.Errorf("Filename = %q", got)
	}
	if got := FormatCSV.ContentType(); got != "text/csv" {
		t.Errorf("ContentType = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, testSheet); err != nil {
		t.Fatalf("Write: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}
	if records[0][1] != "Name" {
		t.Errorf("header = %v", records[0])
	}
	// Embedded commas must survive the round trip.
	if records[2][1] != "Kshatriya, East" {
		t.Errorf("row = %v", records[2])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatXLSX, testSheet); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Castes")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1][0] != "c1" || rows[1][1] != "Brahmin" {
		t.Errorf("data row = %v", rows[1])
	}
}
