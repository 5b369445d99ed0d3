package mysql

import (
	"context"
	"database/sql"

	domreview "example.com/storefront/internal/domain/review"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domreview.Review) (*domreview.Review, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO reviews (product_id, user_id, rating, comment)
        VALUES (?, ?, ?, ?)
    `, rv.ProductID, rv.UserID, rv.Rating, rv.Comment)
	if err != nil {
		if isDuplicate(err) {
			return nil, domreview.ErrReviewExists
		}
		return nil, err
	}
	rv.ID, _ = res.LastInsertId()
	return rv, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]*domreview.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT rv.id, rv.product_id, rv.user_id, u.name, rv.rating, rv.comment, rv.created_at
        FROM reviews rv
        JOIN users u ON u.id = rv.user_id
        WHERE rv.product_id = ?
        ORDER BY rv.created_at DESC
    `, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domreview.Review
	for rows.Next() {
		var rv domreview.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}
	return reviews, rows.Err()
}
