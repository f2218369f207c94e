package dost

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Form field names accepted by the process-query endpoint.
const (
	FieldQuery   = "query"
	FieldImage   = "image"
	FieldContext = "context"
	FieldFile    = "file"
)

// Default filenames attached to binary parts.
const (
	ImageFilename = "upload.png"
	AudioFilename = "query.wav"
)

// Payload is an outbound multipart submission for the process-query endpoint.
// Construction is pure; the caller is responsible for dispatch.
type Payload struct {
	values []formValue
	files  []FilePart
}

type formValue struct {
	name  string
	value string
}

// FilePart is a binary attachment in the outbound form.
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

// SetValue appends a plain form field.
func (p *Payload) SetValue(name, value string) {
	p.values = append(p.values, formValue{name: name, value: value})
}

// AddFile appends a binary form field.
func (p *Payload) AddFile(field, filename string, data []byte) {
	p.files = append(p.files, FilePart{Field: field, Filename: filename, Data: data})
}

// Value returns the named plain field, reporting whether it was set.
func (p *Payload) Value(name string) (string, bool) {
	for _, v := range p.values {
		if v.name == name {
			return v.value, true
		}
	}
	return "", false
}

// File returns the binary part for the given field, reporting whether it was
// attached.
func (p *Payload) File(field string) (FilePart, bool) {
	for _, f := range p.files {
		if f.Field == field {
			return f, true
		}
	}
	return FilePart{}, false
}

// Encode renders the payload as a multipart/form-data body, returning the
// body and its content type.
func (p *Payload) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, v := range p.values {
		if err := w.WriteField(v.name, v.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", v.name, err)
		}
	}
	for _, f := range p.files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
