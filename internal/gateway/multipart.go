package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Form builds a multipart request body from an explicit field list. Each
// mutation declares exactly which fields and files it sends, so the wire
// contract is visible at the call site instead of being derived from a
// struct by reflection.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name     string
	filename string
	content  io.Reader
}

// NewForm creates an empty Form.
func NewForm() *Form {
	return &Form{}
}

// Set appends a text field. Fields are written in the order they were set.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// File appends a file part read from content.
func (f *Form) File(name, filename string, content io.Reader) *Form {
	f.files = append(f.files, formFile{name: name, filename: filename, content: content})
	return f
}

// Encode writes the form into a buffer and returns it with the content type
// carrying the boundary.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		part, err := w.CreateFormFile(file.name, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %q: %w", file.name, err)
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, "", fmt.Errorf("copy file part %q: %w", file.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
