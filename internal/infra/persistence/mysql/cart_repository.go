package mysql

import (
	"context"
	"database/sql"
	"errors"

	domcart "example.com/storefront/internal/domain/cart"
)

// CartStorage keeps encoded carts in the cart_snapshots table.
type CartStorage struct {
	db *sql.DB
}

func NewCartStorage(db *sql.DB) *CartStorage {
	return &CartStorage{db: db}
}

func (r *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `
        SELECT payload FROM cart_snapshots WHERE session_key = ?
    `, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrSnapshotNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *CartStorage) Save(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO cart_snapshots (session_key, payload)
        VALUES (?, ?)
        ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = CURRENT_TIMESTAMP
    `, key, data)
	return err
}

func (r *CartStorage) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_snapshots WHERE session_key = ?`, key)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domcart.ErrSnapshotNotFound
	}
	return nil
}
