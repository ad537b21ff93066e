package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"gitlab.com/amize/amize-backend/pkg/ctxs"
	"gitlab.com/amize/amize-backend/pkg/errorx"
)

const bearerPrefix = "Bearer "

var ErrMissingViewer = errors.New("request carries no viewer")

// Viewer reads the account id from "Authorization: Bearer <accountId>" and
// stores it in the request context. The id is not authenticated; this only
// carries who the client claims to be until sessions exist. Requests without
// a well formed header pass through anonymously.
func (m *Middleware) Viewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := bearerAccountID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := ctxs.WithViewer(r.Context(), &ctxs.Viewer{AccountID: id})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireViewer rejects requests that Viewer did not attach a viewer to.
func (m *Middleware) RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxs.ViewerFromCtx(r.Context()); !ok {
			ctx, span := m.tracer.Start(r.Context(), "RequireViewer")
			defer span.End()
			m.errhandler.HandleError(w, r.WithContext(ctx), span,
				errorx.NewUnauthorized().WithCause(ErrMissingViewer), "missing viewer")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerAccountID(r *http.Request) (uuid.UUID, bool) {
	header := r.Header.Get("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(strings.TrimSpace(header[len(bearerPrefix):]))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
