package mysql

import (
	"context"
	"database/sql"
	"errors"

	domcategory "example.com/storefront/internal/domain/category"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, slug, description, image, is_active, created_at`

func (r *CategoryRepository) Create(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO categories (name, slug, description, image, is_active)
        VALUES (?, ?, ?, ?, ?)
    `, c.Name, c.Slug, c.Description, c.Image, c.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return nil, domcategory.ErrCategorySlugExists
		}
		return nil, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

func (r *CategoryRepository) Update(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	_, err := r.db.ExecContext(ctx, `
        UPDATE categories SET name = ?, slug = ?, description = ?, image = ?, is_active = ?
        WHERE id = ?
    `, c.Name, c.Slug, c.Description, c.Image, c.IsActive, c.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, domcategory.ErrCategorySlugExists
		}
		return nil, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domcategory.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domcategory.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcategory.ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context, filter domcategory.ListFilter) ([]*domcategory.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if filter.OnlyActive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domcategory.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanCategory(s scanner) (*domcategory.Category, error) {
	var c domcategory.Category
	if err := s.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

type scanner interface {
	Scan(dest ...any) error
}
