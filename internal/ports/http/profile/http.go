package profilehttp

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	profileapp "gitlab.com/amize/amize-backend/internal/application/profile"
	"gitlab.com/amize/amize-backend/internal/application/profile/cmd"
	"gitlab.com/amize/amize-backend/internal/application/profile/query"
	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
	"gitlab.com/amize/amize-backend/pkg/ctxs"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/httpx"
	"gitlab.com/amize/amize-backend/pkg/sanitizex"
	"gitlab.com/amize/amize-backend/pkg/validationx"
)

const (
	// maxFormSize bounds the whole multipart body: two images plus text fields.
	maxFormSize = 2*profile.MaxMediaSize + 1<<20
	// maxFormMemory is kept in memory, larger parts spill to temp files.
	maxFormMemory = 8 << 20
)

var (
	tracer = otel.Tracer("amize/internal/ports/http/profile")
	logger = otelslog.NewLogger("amize/internal/ports/http/profile")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	app        *profileapp.App
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *profileapp.App
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
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Post("/add", h.CreateProfile)
		r.Get("/{id}", h.GetProfile)
	})
}

type Counts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
	Videos    int `json:"videos"`
}

type OwnerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Counts   Counts `json:"counts"`
}

type ProfileResponse struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"userId"`
	Role                 string         `json:"role"`
	CreatorVerified      bool           `json:"creatorVerified"`
	CreatorCategory      *string        `json:"creatorCategory"`
	MonetizationEnabled  bool           `json:"monetizationEnabled"`
	AdminPermissions     []string       `json:"adminPermissions"`
	ProfileImage         *string        `json:"profileImage"`
	BannerImage          *string        `json:"bannerImage"`
	Interests            []string       `json:"interests"`
	Counts               Counts         `json:"counts"`
	IsOnline             bool           `json:"isOnline"`
	LastSeenAt           *time.Time     `json:"lastSeenAt"`
	IsEligibleForCreator bool           `json:"isEligibleForCreator"`
	LastLoginAt          *time.Time     `json:"lastLoginAt"`
	DeactivatedAt        *time.Time     `json:"deactivatedAt"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
	User                 *OwnerResponse `json:"user,omitempty"`
}

func NewProfileResponse(p *profile.Profile) ProfileResponse {
	counts := Counts(p.Counts())
	return ProfileResponse{
		ID:                   p.ID().String(),
		UserID:               p.UserID().String(),
		Role:                 p.Role().String(),
		CreatorVerified:      p.CreatorVerified(),
		CreatorCategory:      p.CreatorCategory(),
		MonetizationEnabled:  p.MonetizationEnabled(),
		AdminPermissions:     nonNil(p.AdminPermissions()),
		ProfileImage:         p.ProfileImage(),
		BannerImage:          p.BannerImage(),
		Interests:            nonNil(p.Interests()),
		Counts:               counts,
		IsOnline:             p.IsOnline(),
		LastSeenAt:           p.LastSeenAt(),
		IsEligibleForCreator: p.IsEligibleForCreator(),
		LastLoginAt:          p.LastLoginAt(),
		DeactivatedAt:        p.DeactivatedAt(),
		CreatedAt:            p.CreatedAt(),
		UpdatedAt:            p.UpdatedAt(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type CreateProfileRequest struct {
	UserID          string   `json:"userId"`
	Role            string   `json:"role"`
	CreatorCategory string   `json:"creatorCategory"`
	Interests       []string `json:"interests"`
}

func (r *CreateProfileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, validationx.IsUUID),
	)
}

// readCreateProfileForm reads the text fields of the multipart form.
// Interests may be repeated or given as one comma separated value.
func readCreateProfileForm(form *multipart.Form) CreateProfileRequest {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return sanitizex.CleanSingleLine(v[0])
		}
		return ""
	}

	var interests []string
	for _, v := range form.Value["interests"] {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				interests = append(interests, tag)
			}
		}
	}

	return CreateProfileRequest{
		UserID:          value("userId"),
		Role:            strings.ToUpper(value("role")),
		CreatorCategory: value("creatorCategory"),
		Interests:       interests,
	}
}

func (h *HTTP) CreateProfile(w http.ResponseWriter, r *http.Request) {
	const op = "profilehttp.HTTP.CreateProfile"
	ctx, span := h.tracer.Start(r.Context(), "HTTP.CreateProfile")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			h.errhandler.HandleError(w, r, span, errorx.NewPayloadTooLarge().WithCause(err), "multipart form too large")
			return
		}
		h.errhandler.HandleError(w, r, span, errorx.NewInvalidRequest().WithCause(errorx.Wrap(err, op)), "failed to parse multipart form")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.WarnContext(ctx, "failed to remove multipart temp files", slog.String("error", err.Error()))
		}
	}()

	req := readCreateProfileForm(r.MultipartForm)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate form")
		return
	}
	userID, _ := account.ParseID(req.UserID)

	command := cmd.CreateProfile{
		UserID:          userID,
		Role:            profile.Role(req.Role),
		CreatorCategory: req.CreatorCategory,
		Interests:       req.Interests,
		Viewer:          viewerID(r),
	}

	var closers []multipart.File
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()
	for field, dst := range map[string]**cmd.Media{"profileImage": &command.ProfileImage, "bannerImage": &command.BannerImage} {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			h.errhandler.HandleError(w, r, span, errorx.NewInvalidRequest().WithCause(errorx.Wrap(err, op)), "failed to read "+field)
			return
		}
		closers = append(closers, file)
		*dst = &cmd.Media{
			Reader:      file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	res, err := h.app.CMD.CreateProfile.Handle(ctx, command)
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to create profile")
		return
	}

	httpx.Success(w, r, http.StatusCreated, httpx.Envelope{
		"user":         NewProfileResponse(res.Profile),
		"isOwnProfile": res.IsOwnProfile,
		"isFollowing":  res.IsFollowing,
	})
}

func (h *HTTP) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTP.GetProfile")
	defer span.End()

	userID, err := account.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.errhandler.HandleError(w, r, span, validation.Errors{"id": validationx.ErrInvalidUUID}, "invalid profile id")
		return
	}

	res, err := h.app.Query.GetProfile.Handle(ctx, query.GetProfile{UserID: userID, Viewer: viewerID(r)})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to get profile")
		return
	}

	body := NewProfileResponse(res.Profile)
	body.User = &OwnerResponse{
		ID:       res.Owner.ID.String(),
		Username: res.Owner.Username,
		Email:    res.Owner.Email,
		Counts:   body.Counts,
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"user":         body,
		"isOwnProfile": res.IsOwnProfile,
		"isFollowing":  res.IsFollowing,
	})
}

func viewerID(r *http.Request) *account.ID {
	viewer, ok := ctxs.ViewerFromCtx(r.Context())
	if !ok {
		return nil
	}
	id := account.ID(viewer.AccountID)
	return &id
}
