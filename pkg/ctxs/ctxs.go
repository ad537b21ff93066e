// Package ctxs holds the request scoped values passed through context:
// the ambient pgx transaction and the viewing account.
package ctxs

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ctxKey int

const (
	txKey ctxKey = iota
	viewerKey
)

// WithTx makes repositories called with the returned context join tx instead
// of opening their own transaction.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

func Tx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok && tx != nil
}

// Viewer is the account on whose behalf a request is made.
type Viewer struct {
	AccountID uuid.UUID
}

func WithViewer(ctx context.Context, viewer *Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, viewer)
}

func ViewerFromCtx(ctx context.Context) (*Viewer, bool) {
	viewer, ok := ctx.Value(viewerKey).(*Viewer)
	return viewer, ok && viewer != nil
}
