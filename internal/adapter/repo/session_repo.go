// Package repo provides implementations of the domain repository
// interfaces: PostgreSQL-backed for deployments and in-memory for
// development and tests.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deckgen/internal/domain"
)

// SessionRepositoryPG implements domain.SessionRepository backed by
// PostgreSQL. Sessions are stored as whole JSONB snapshots; the store
// contract is get/put, not relational queries.
type SessionRepositoryPG struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepositoryPG {
	return &SessionRepositoryPG{pool: pool}
}

func (r *SessionRepositoryPG) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = r.pool.Exec(ctx, qUpsertSession, session.ID, session.UserID, data, session.CreatedAt, session.UpdatedAt)
	return err
}

func (r *SessionRepositoryPG) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	row := r.pool.QueryRow(ctx, qGetSession, sessionID)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepositoryPG) Delete(ctx context.Context, sessionID string) error {
	tag, err := r.pool.Exec(ctx, qDeleteSession, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

var _ domain.SessionRepository = (*SessionRepositoryPG)(nil)
