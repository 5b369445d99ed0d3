package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	domproduct "example.com/storefront/internal/domain/product"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, seller_id, category_id, name, description, price, stock, image, images, is_active, created_at, updated_at`

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	images, err := encodeImages(p.Images)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO products (seller_id, category_id, name, description, price, stock, image, images, is_active)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, p.SellerID, nullableID(p.CategoryID), p.Name, p.Description, p.Price, p.Stock, p.Image, images, p.IsActive)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	images, err := encodeImages(p.Images)
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx, `
        UPDATE products
        SET category_id = ?, name = ?, description = ?, price = ?, stock = ?, image = ?, images = ?, is_active = ?
        WHERE id = ?
    `, nullableID(p.CategoryID), p.Name, p.Description, p.Price, p.Stock, p.Image, images, p.IsActive, p.ID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domproduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var clauses []string
	var args []any

	if filter.CategoryID != nil {
		clauses = append(clauses, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.SellerID != nil {
		clauses = append(clauses, "seller_id = ?")
		args = append(args, *filter.SellerID)
	}
	if filter.Search != "" {
		clauses = append(clauses, "name LIKE ?")
		args = append(args, fmt.Sprintf("%%%s%%", filter.Search))
	}
	if filter.OnlyActive {
		clauses = append(clauses, "is_active = 1")
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domproduct.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func scanProduct(s scanner) (*domproduct.Product, error) {
	var p domproduct.Product
	var categoryID sql.NullInt64
	var images []byte
	if err := s.Scan(&p.ID, &p.SellerID, &categoryID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Image, &images, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CategoryID = categoryID.Int64
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("decode product images: %w", err)
		}
	}
	return &p, nil
}

func encodeImages(images []string) ([]byte, error) {
	if len(images) == 0 {
		return nil, nil
	}
	return json.Marshal(images)
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}
