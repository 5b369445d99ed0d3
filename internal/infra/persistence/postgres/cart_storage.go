package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domcart "example.com/storefront/internal/domain/cart"
)

// NewPool connects to dsn and verifies the connection.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the cart snapshot table if it is missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS cart_snapshots (
            session_key TEXT PRIMARY KEY,
            payload     JSONB NOT NULL,
            updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	return err
}

type CartStorage struct {
	pool *pgxpool.Pool
}

func NewCartStorage(pool *pgxpool.Pool) *CartStorage {
	return &CartStorage{pool: pool}
}

func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM cart_snapshots WHERE session_key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domcart.ErrSnapshotNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *CartStorage) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO cart_snapshots (session_key, payload, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (session_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
    `, key, data)
	return err
}

func (s *CartStorage) Delete(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_snapshots WHERE session_key = $1`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domcart.ErrSnapshotNotFound
	}
	return nil
}

// Ping reports whether the pool can reach the server.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}
