package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deckgen/internal/domain"
)

// UsageRepositoryPG implements domain.UsageRepository backed by
// PostgreSQL. The counter is cumulative and never decremented.
type UsageRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewUsageRepository(pool *pgxpool.Pool) *UsageRepositoryPG {
	return &UsageRepositoryPG{pool: pool}
}

func (r *UsageRepositoryPG) Used(ctx context.Context, userID string) (int, error) {
	row := r.pool.QueryRow(ctx, qGetUsage, userID)
	var used int
	if err := row.Scan(&used); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row yet means nothing generated.
			return 0, nil
		}
		return 0, err
	}
	return used, nil
}

func (r *UsageRepositoryPG) Add(ctx context.Context, userID string, n int) (int, error) {
	row := r.pool.QueryRow(ctx, qAddUsage, userID, n)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

var _ domain.UsageRepository = (*UsageRepositoryPG)(nil)
