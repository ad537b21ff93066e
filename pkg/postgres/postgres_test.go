package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationDSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pgx5://u:p@localhost:5432/db", MigrationDSN("postgres://u:p@localhost:5432/db"))
	assert.Equal(t, "pgx5://u:p@localhost:5432/db", MigrationDSN("postgresql://u:p@localhost:5432/db"))
	assert.Equal(t, "pgx5://already", MigrationDSN("pgx5://already"))
}
