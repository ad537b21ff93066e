package query

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("amize/application/auth/query")
	logger = otelslog.NewLogger("amize/application/auth/query")
)

type AccountGetter interface {
	GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error)
}

type GetAccount struct {
	ID account.ID
}

type GetAccountResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	FullName        string    `json:"fullName"`
	DateOfBirth     string    `json:"dateOfBirth"`
	Age             int       `json:"age"`
	Bio             string    `json:"bio"`
	Gender          string    `json:"gender,omitempty"`
	ProfilePhotoURL string    `json:"profilePhotoUrl"`
	IsVerified      bool      `json:"isVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type GetAccountHandler struct {
	tracer        trace.Tracer
	logger        *slog.Logger
	accountGetter AccountGetter
}

type GetAccountHandlerArgs struct {
	Tracer        trace.Tracer
	Logger        *slog.Logger
	AccountGetter AccountGetter
}

func NewGetAccountHandler(args GetAccountHandlerArgs) *GetAccountHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &GetAccountHandler{
		tracer:        args.Tracer,
		logger:        args.Logger,
		accountGetter: args.AccountGetter,
	}
}

func (h *GetAccountHandler) Handle(ctx context.Context, query GetAccount) (*GetAccountResponse, error) {
	const op = "query.GetAccountHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "GetAccountHandler.Handle",
		trace.WithAttributes(attribute.String("account.id", query.ID.String())),
	)
	defer span.End()

	a, err := h.accountGetter.GetAccountByID(ctx, query.ID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get account by id")
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(account.ErrNotFound.WithCause(err), op)
		}
		return nil, errorx.Wrap(err, op)
	}

	return &GetAccountResponse{
		ID:              a.ID().String(),
		Username:        a.Username(),
		Email:           a.Email(),
		FirstName:       a.FirstName(),
		LastName:        a.LastName(),
		FullName:        a.FullName(),
		DateOfBirth:     a.DateOfBirth().Format(time.DateOnly),
		Age:             a.Age(),
		Bio:             a.Bio(),
		Gender:          a.Gender().String(),
		ProfilePhotoURL: a.ProfilePhotoURL(),
		IsVerified:      a.IsVerified(),
		CreatedAt:       a.CreatedAt(),
		UpdatedAt:       a.UpdatedAt(),
	}, nil
}
