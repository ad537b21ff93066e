package event

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/watermillx"
)

const (
	NameVerificationCodeIssued = "account.VerificationCodeIssued"
	NameEmailVerified          = "account.EmailVerified"
)

type Helper struct {
	pool  *pgxpool.Pool
	table string
}

func NewHelper(pool *pgxpool.Pool) *Helper {
	return &Helper{pool: pool, table: "watermill_" + account.EventStreamName}
}

func (h *Helper) count(t *testing.T, name string) int {
	t.Helper()

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE metadata->>'name' = $1`, h.table)
	require.NoError(t, h.pool.QueryRow(context.Background(), query, name).Scan(&count))
	return count
}

// AssertEventCount checks how many events named name are in the outbox.
func (h *Helper) AssertEventCount(t *testing.T, name string, expected int) {
	t.Helper()
	assert.Equal(t, expected, h.count(t, name), "unexpected %s event count", name)
}

func (h *Helper) AssertNoEvent(t *testing.T, name string) {
	t.Helper()
	h.AssertEventCount(t, name, 0)
}

// Latest decodes the newest event named name into v.
func (h *Helper) Latest(t *testing.T, name string, v any) {
	t.Helper()

	var payload json.RawMessage
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE metadata->>'name' = $1 ORDER BY "offset" DESC LIMIT 1`, h.table)
	err := h.pool.QueryRow(context.Background(), query, name).Scan(&payload)
	require.NoError(t, err, "event %s not found", name)
	require.NoError(t, json.Unmarshal(payload, v), "failed to parse event payload")
}

func (h *Helper) LatestVerificationCodeIssued(t *testing.T) account.VerificationCodeIssued {
	t.Helper()

	var e account.VerificationCodeIssued
	h.Latest(t, NameVerificationCodeIssued, &e)
	return e
}

// Backdate moves every outbox event d into the past.
func (h *Helper) Backdate(t *testing.T, d time.Duration) {
	t.Helper()
	query := fmt.Sprintf(`UPDATE %s SET created_at = created_at - make_interval(secs => $1)`, h.table)
	_, err := h.pool.Exec(context.Background(), query, d.Seconds())
	require.NoError(t, err)
}

// Purge runs the outbox retention step for the account stream.
func (h *Helper) Purge(olderThan time.Duration) (int64, error) {
	return watermillx.PurgeAcked(context.Background(), h.pool, account.EventStreamName, olderThan)
}

// Eventually polls until the outbox holds at least one event named name.
func (h *Helper) Eventually(t *testing.T, name string, timeout time.Duration) {
	t.Helper()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE metadata->>'name' = $1`, h.table)
	require.Eventually(t, func() bool {
		var count int
		err := h.pool.QueryRow(context.Background(), query, name).Scan(&count)
		return err == nil && count > 0
	}, timeout, 50*time.Millisecond, "timeout waiting for event %s", name)
}
