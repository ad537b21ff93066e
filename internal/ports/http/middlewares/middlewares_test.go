package middlewares

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amize "gitlab.com/amize/amize-backend"
	"gitlab.com/amize/amize-backend/pkg/ctxs"
	"gitlab.com/amize/amize-backend/pkg/httpx"
)

func newTestMiddleware(t *testing.T) *Middleware {
	t.Helper()

	errhandler, err := httpx.NewErrorHandler(amize.Locales, nil)
	require.NoError(t, err)
	return NewMiddleware(Args{Errhandler: errhandler})
}

func TestNewMiddleware_PanicsWithoutErrhandler(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewMiddleware(Args{}) })
}

func TestViewer(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tests := []struct {
		name   string
		header string
		want   *uuid.UUID
	}{
		{name: "no header"},
		{name: "bearer id", header: "Bearer " + id.String(), want: &id},
		{name: "lowercase scheme", header: "bearer " + id.String(), want: &id},
		{name: "not a uuid", header: "Bearer token"},
		{name: "nil uuid", header: "Bearer " + uuid.Nil.String()},
		{name: "basic scheme", header: "Basic " + id.String()},
		{name: "scheme only", header: "Bearer "},
	}

	m := newTestMiddleware(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got *ctxs.Viewer
			h := m.Viewer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = ctxs.ViewerFromCtx(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, got.AccountID)
		})
	}
}

func TestRequireViewer(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t)
	called := false
	h := m.Viewer(m.RequireViewer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"UNAUTHORIZED"`)
	assert.False(t, called)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.NewString())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}

func TestMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/metrics-test/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	ok := httpRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test/{id}", "200")
	failed := httpRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test/{id}", "500")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)
	serverErrorsBefore := testutil.ToFloat64(errorsTotal.WithLabelValues("server_error"))

	for _, id := range []string{"1", "2", "boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test/"+id, nil))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	assert.Equal(t, serverErrorsBefore+1, testutil.ToFloat64(errorsTotal.WithLabelValues("server_error")))
}

func TestCORS(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("any origin", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		CORS(nil)(next).ServeHTTP(rec, req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("listed origin", func(t *testing.T) {
		t.Parallel()
		h := CORS([]string{"https://app.example.com"})(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelInfo, requestLevel(http.StatusCreated))
	assert.Equal(t, slog.LevelWarn, requestLevel(http.StatusConflict))
	assert.Equal(t, slog.LevelError, requestLevel(http.StatusBadGateway))
}

func TestLogger_PassesThrough(t *testing.T) {
	t.Parallel()

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
