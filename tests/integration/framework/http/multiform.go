package http

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

type MultipartFormBuilder struct {
	writer *multipart.Writer
	buf    *bytes.Buffer
}

func NewMultipartFormBuilder() *MultipartFormBuilder {
	buf := &bytes.Buffer{}
	return &MultipartFormBuilder{
		writer: multipart.NewWriter(buf),
		buf:    buf,
	}
}

// AddImage adds a file part of size bytes with the given content type.
func (b *MultipartFormBuilder) AddImage(fieldName, contentType string, size int) *MultipartFormBuilder {
	return b.AddFile(fieldName, "upload", contentType, bytes.Repeat([]byte{0x7f}, size))
}

func (b *MultipartFormBuilder) AddFile(fieldName, fileName, contentType string, data []byte) *MultipartFormBuilder {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, fileName))
	h.Set("Content-Type", contentType)

	part, err := b.writer.CreatePart(h)
	if err != nil {
		panic(fmt.Sprintf("failed to create multipart part: %v", err))
	}
	if _, err := part.Write(data); err != nil {
		panic(fmt.Sprintf("failed to write multipart part: %v", err))
	}

	return b
}

func (b *MultipartFormBuilder) AddField(fieldName string, values ...string) *MultipartFormBuilder {
	for _, v := range values {
		if err := b.writer.WriteField(fieldName, v); err != nil {
			panic(fmt.Sprintf("failed to write field to multipart form: %v", err))
		}
	}
	return b
}

func (b *MultipartFormBuilder) Build() (io.Reader, string) {
	if err := b.writer.Close(); err != nil {
		panic(fmt.Sprintf("failed to close multipart writer: %v", err))
	}

	return b.buf, b.writer.FormDataContentType()
}
