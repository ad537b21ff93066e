package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	authapp "gitlab.com/amize/amize-backend/internal/application/auth"
	profileapp "gitlab.com/amize/amize-backend/internal/application/profile"
	authhttp "gitlab.com/amize/amize-backend/internal/ports/http/auth"
	"gitlab.com/amize/amize-backend/internal/ports/http/middlewares"
	profilehttp "gitlab.com/amize/amize-backend/internal/ports/http/profile"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/httpx"
)

const HealthMessage = "Amize Backend is running!"

type Port struct {
	auth        *authhttp.HTTP
	profile     *profilehttp.HTTP
	middleware  *middlewares.Middleware
	errhandler  *httpx.ErrorHandler
	corsOrigins []string
}

type Args struct {
	AuthApp     *authapp.App
	ProfileApp  *profileapp.App
	Errhandler  *httpx.ErrorHandler
	CORSOrigins []string
}

func NewPort(args Args) *Port {
	mw := middlewares.NewMiddleware(middlewares.Args{Errhandler: args.Errhandler})

	return &Port{
		auth: authhttp.NewHTTP(authhttp.Args{
			App:        args.AuthApp,
			Middleware: mw,
			Errhandler: args.Errhandler,
		}),
		profile: profilehttp.NewHTTP(profilehttp.Args{
			App:        args.ProfileApp,
			Errhandler: args.Errhandler,
		}),
		middleware:  mw,
		errhandler:  args.Errhandler,
		corsOrigins: args.CORSOrigins,
	}
}

// Route mounts every endpoint on r, creating a new router when r is nil.
func (p *Port) Route(r chi.Router) chi.Router {
	if r == nil {
		r = chi.NewRouter()
	}

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middlewares.OTel,
		middlewares.Logger,
		middlewares.Metrics,
		middlewares.CORS(p.corsOrigins),
		p.middleware.Viewer,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		p.errhandler.HandleError(w, r, trace.SpanFromContext(r.Context()), errorx.NewNotFound(), "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		p.errhandler.HandleError(w, r, trace.SpanFromContext(r.Context()), errorx.NewMethodNotAllowed(), "method not allowed")
	})

	r.Get("/", Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		p.auth.Route(r)
		p.profile.Route(r)
	})

	return r
}

func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(HealthMessage))
}
