package client

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

const boundaryPrefix = "----fecoBoundary"

// FormField is a scalar part of a multipart/form-data body.
type FormField struct {
	Name  string
	Value string
}

// FormFile is a file part of a multipart/form-data body.
type FormFile struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// EncodeMultipart builds a multipart/form-data body: every field in the order given, then every
// file in the order given. It returns the body and the Content-Type header value, which carries
// the boundary.
//
// The boundary is derived from the current time in nanoseconds. That is unique enough for the
// fixed payloads of a smoke test, but it is not a defence against content crafted to contain it.
func EncodeMultipart(fields []FormField, files []FormFile) ([]byte, string, error) {
	return encodeMultipart(newBoundary(), fields, files)
}

func newBoundary() string {
	return boundaryPrefix + strconv.FormatInt(time.Now().UnixNano(), 10)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(boundary string, fields []FormField, files []FormFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, "", fmt.Errorf("invalid multipart boundary %q: %w", boundary, err)
	}
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("writing form field %q: %w", f.Name, err)
		}
	}
	for _, f := range files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.Filename)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("writing form file %q: %w", f.Filename, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("writing form file %q: %w", f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
