package authhttp

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	authapp "gitlab.com/amize/amize-backend/internal/application/auth"
	"gitlab.com/amize/amize-backend/internal/application/auth/cmd"
	"gitlab.com/amize/amize-backend/internal/application/auth/query"
	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/ports/http/middlewares"
	"gitlab.com/amize/amize-backend/pkg/ctxs"
	"gitlab.com/amize/amize-backend/pkg/httpx"
	"gitlab.com/amize/amize-backend/pkg/i18nx"
	"gitlab.com/amize/amize-backend/pkg/logging"
	"gitlab.com/amize/amize-backend/pkg/otelx"
	"gitlab.com/amize/amize-backend/pkg/sanitizex"
	"gitlab.com/amize/amize-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("amize/internal/ports/http/auth")
	logger = otelslog.NewLogger("amize/internal/ports/http/auth")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	app        *authapp.App
	middleware *middlewares.Middleware
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *authapp.App
	Middleware *middlewares.Middleware
	Errhandler *httpx.ErrorHandler
}

func NewHTTP(args Args) *HTTP {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &HTTP{
		tracer:     args.Tracer,
		logger:     args.Logger,
		app:        args.App,
		middleware: args.Middleware,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/verify-email", h.VerifyEmail)
		r.Post("/login", h.Login)

		r.With(h.middleware.RequireViewer).Get("/me", h.Me)
	})
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	DateOfBirth     string `json:"dateOfBirth"`
	Bio             string `json:"bio"`
	Gender          string `json:"gender"`
}

func (r *RegisterRequest) Sanitized() {
	r.Username = sanitizex.CleanSingleLine(r.Username)
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.FirstName = sanitizex.CleanSingleLine(r.FirstName)
	r.LastName = sanitizex.CleanSingleLine(r.LastName)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Bio = sanitizex.CleanSingleLine(r.Bio)
	r.Gender = strings.TrimSpace(r.Gender)
}

func (r *RegisterRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{
		"email":    logging.RedactEmail(r.Email),
		"username": r.Username,
	})
}

func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validationx.UsernameRules...),
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Password, validationx.PasswordRules...),
		validation.Field(&r.ConfirmPassword, validation.Required, validationx.PasswordsMatch(r.Password)),
		validation.Field(&r.FirstName, validationx.NameRules...),
		validation.Field(&r.LastName, validationx.NameRules...),
		validation.Field(&r.DateOfBirth, validationx.DateOfBirthRules...),
		validation.Field(&r.Bio, validation.RuneLength(0, account.MaxBioLen)),
		validation.Field(&r.Gender, validation.In(genderValues()...)),
	)
}

func genderValues() []any {
	values := make([]any, len(account.Genders))
	for i, g := range account.Genders {
		values[i] = g.(account.Gender).String()
	}
	return values
}

func (h *HTTP) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTP.Register")
	defer span.End()

	var req RegisterRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	dob, err := validationx.ParseDate(req.DateOfBirth)
	if err != nil {
		h.errhandler.HandleError(w, r, span, validation.Errors{"dateOfBirth": validation.ErrDateInvalid}, "invalid date of birth")
		return
	}

	email, err := h.app.CMD.Register.Handle(ctx, cmd.Register{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		Bio:         req.Bio,
		Gender:      account.Gender(req.Gender),
	})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to register account")
		return
	}

	httpx.Success(w, r, http.StatusCreated, httpx.Envelope{
		"message": h.errhandler.Message(r, i18nx.KeyRegistrationSuccess),
		"data":    httpx.Envelope{"email": email},
	})
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r *VerifyEmailRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.Code = strings.TrimSpace(r.Code)
}

func (r *VerifyEmailRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		// the code's shape is judged by the account, after lookup and verified state
		validation.Field(&r.Code, validation.Required),
	)
}

func (h *HTTP) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTP.VerifyEmail")
	defer span.End()

	var req VerifyEmailRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(req.Email)})
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	if err := h.app.CMD.VerifyEmail.Handle(ctx, cmd.VerifyEmail{Email: req.Email, Code: req.Code}); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to verify email")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"message": h.errhandler.Message(r, i18nx.KeyVerificationSuccess),
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required.ErrorObject(validation.NewError(i18nx.KeyEmailRequired, "email is required"))),
		validation.Field(&r.Password, validation.Required.ErrorObject(validation.NewError(i18nx.KeyPasswordRequired, "password is required"))),
	)
}

type LoginUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

func (h *HTTP) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTP.Login")
	defer span.End()

	var req LoginRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(req.Email)})
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	res, err := h.app.CMD.Login.Handle(ctx, cmd.Login{Email: req.Email, Password: req.Password})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to login")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"message": h.errhandler.Message(r, i18nx.KeyLoginSuccess),
		"user": LoginUser{
			ID:         res.ID.String(),
			Username:   res.Username,
			Email:      res.Email,
			IsVerified: res.IsVerified,
		},
	})
}

func (h *HTTP) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTP.Me")
	defer span.End()

	viewer, _ := ctxs.ViewerFromCtx(ctx)
	res, err := h.app.Query.GetAccount.Handle(ctx, query.GetAccount{ID: account.ID(viewer.AccountID)})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to get account")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"user": res})
}
