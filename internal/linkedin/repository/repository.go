package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadflow_backend/internal/linkedin/session"
)

// Repository stores automation sessions in Postgres. The cookie set is
// kept as a jsonb blob; it is opaque to the database and only ever read
// back as a whole.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Get(ctx context.Context, key string) (*session.StoredSession, error) {
	var (
		record  session.StoredSession
		cookies []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT session_key, cookies, expires_at, last_used_at
		FROM linkedin_sessions
		WHERE session_key = $1
	`, key).Scan(&record.Key, &cookies, &record.ExpiresAt, &record.LastUsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(cookies, &record.Cookies); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) Save(ctx context.Context, record session.StoredSession) error {
	cookies, err := json.Marshal(record.Cookies)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO linkedin_sessions (session_key, cookies, expires_at, last_used_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_key) DO UPDATE SET
			cookies = EXCLUDED.cookies,
			expires_at = EXCLUDED.expires_at,
			last_used_at = EXCLUDED.last_used_at,
			updated_at = now()
	`, record.Key, cookies, record.ExpiresAt, record.LastUsedAt)
	return err
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM linkedin_sessions WHERE session_key = $1`, key)
	return err
}

func (r *Repository) TouchLastUsed(ctx context.Context, key string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE linkedin_sessions SET last_used_at = $2, updated_at = now()
		WHERE session_key = $1
	`, key, at)
	return err
}
