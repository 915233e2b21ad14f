package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables the repositories need if they do not
// exist yet. Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, qSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
