package watermillx

import (
	"context"
	"fmt"
	"time"

	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v4/pkg/sql"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurgeAcked deletes messages of topic older than olderThan that every
// consumer group has acked. Nothing is deleted before a consumer group has
// recorded an offset. It returns the number of deleted messages.
//
// created_at is a timestamp without time zone written in the session time
// zone, so the cutoff is computed from LOCALTIMESTAMP on the server.
func PurgeAcked(ctx context.Context, conn *pgxpool.Pool, topic string, olderThan time.Duration) (int64, error) {
	messages := watermillSQL.DefaultPostgreSQLSchema{}.MessagesTable(topic)
	offsets := watermillSQL.DefaultPostgreSQLOffsetsAdapter{}.MessagesOffsetsTable(topic)

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE created_at < LOCALTIMESTAMP - make_interval(secs => $1)
		  AND "offset" <= (SELECT COALESCE(MIN(offset_acked), 0) FROM %s)`,
		messages, offsets,
	)

	tag, err := conn.Exec(ctx, query, olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("failed to purge %s: %w", messages, err)
	}

	return tag.RowsAffected(), nil
}
