package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Helper struct {
	handler http.Handler
}

func NewHelper(handler http.Handler) *Helper {
	return &Helper{handler: handler}
}

type Request struct {
	Path        string
	Method      string
	Body        any
	RawBody     io.Reader
	ContentType string
	Headers     map[string]string
}

type Response struct {
	*httptest.ResponseRecorder
	t *testing.T
}

func (h *Helper) Do(t *testing.T, req Request) *Response {
	t.Helper()

	body := req.RawBody
	contentType := req.ContentType
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, body)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, httpReq)

	return &Response{ResponseRecorder: w, t: t}
}

func (r *Response) AssertStatus(expected int) *Response {
	r.t.Helper()
	assert.Equal(r.t, expected, r.Code, "unexpected status code, body: %s", r.Body.String())
	return r
}

func (r *Response) AssertSuccess(expectedStatus int) *Response {
	r.t.Helper()
	r.AssertStatus(expectedStatus)

	body := r.JSON()
	assert.Equal(r.t, true, body["success"], "expected success=true")
	return r
}

// AssertError checks the status and the error code of a failed response.
func (r *Response) AssertError(expectedStatus int, expectedCode string) *Response {
	r.t.Helper()
	r.AssertStatus(expectedStatus)

	body := r.JSON()
	assert.Equal(r.t, false, body["success"], "expected success=false")
	assert.Equal(r.t, expectedCode, body["code"])
	return r
}

func (r *Response) AssertMessage(expected string) *Response {
	r.t.Helper()
	assert.Equal(r.t, expected, r.JSON()["message"], "unexpected message in response")
	return r
}

func (r *Response) AssertFieldErrors(fields ...string) *Response {
	r.t.Helper()

	errs, ok := r.JSON()["errors"].(map[string]any)
	require.True(r.t, ok, "expected errors object in %s", r.Body.String())
	for _, f := range fields {
		assert.Contains(r.t, errs, f)
	}
	return r
}

func (r *Response) JSON() map[string]any {
	r.t.Helper()

	var body map[string]any
	r.ParseJSON(&body)
	return body
}

func (r *Response) ParseJSON(v any) *Response {
	r.t.Helper()

	err := json.Unmarshal(r.Body.Bytes(), v)
	require.NoError(r.t, err, "failed to parse JSON response: %s", r.Body.String())

	return r
}

type RequestBuilder struct {
	req Request
}

func NewRequest(method, path string) *RequestBuilder {
	return &RequestBuilder{
		req: Request{
			Path:    path,
			Method:  method,
			Headers: make(map[string]string),
		},
	}
}

func Post(path string) *RequestBuilder { return NewRequest(http.MethodPost, path) }
func Get(path string) *RequestBuilder  { return NewRequest(http.MethodGet, path) }

func (b *RequestBuilder) WithJSON(body any) *RequestBuilder {
	b.req.Body = body
	return b
}

func (b *RequestBuilder) WithMultipart(form *MultipartFormBuilder) *RequestBuilder {
	b.req.RawBody, b.req.ContentType = form.Build()
	return b
}

func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.req.Headers[key] = value
	return b
}

// AsViewer sends the request on behalf of accountID.
func (b *RequestBuilder) AsViewer(accountID string) *RequestBuilder {
	return b.WithHeader("Authorization", "Bearer "+accountID)
}

func (b *RequestBuilder) Build() Request {
	return b.req
}
