package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	domcart "example.com/storefront/internal/domain/cart"
)

const schema = `
CREATE TABLE IF NOT EXISTS cart_snapshots (
    session_key TEXT PRIMARY KEY,
    payload     BLOB NOT NULL,
    updated_at  TIMESTAMP NOT NULL
)`

// Open opens the SQLite file at path and makes sure the cart table exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cart schema: %w", err)
	}
	return db, nil
}

type CartStorage struct {
	db  *sql.DB
	now func() time.Time
}

func NewCartStorage(db *sql.DB) *CartStorage {
	return &CartStorage{db: db, now: time.Now}
}

func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM cart_snapshots WHERE session_key = ?`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrSnapshotNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *CartStorage) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO cart_snapshots (session_key, payload, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(session_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
    `, key, data, s.now().UTC())
	return err
}

func (s *CartStorage) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cart_snapshots WHERE session_key = ?`, key)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domcart.ErrSnapshotNotFound
	}
	return nil
}
