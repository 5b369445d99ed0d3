package mysql

import (
	"context"
	"database/sql"
	"errors"

	dom "example.com/storefront/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, phone, address, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *dom.User) (*dom.User, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO users (name, email, password_hash, role, phone, address)
        VALUES (?, ?, ?, ?, ?, ?)
    `, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Phone, u.Address)
	if err != nil {
		if isDuplicate(err) {
			return nil, dom.ErrEmailAlreadyUsed
		}
		return nil, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*dom.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*dom.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) Update(ctx context.Context, u *dom.User) (*dom.User, error) {
	_, err := r.db.ExecContext(ctx, `
        UPDATE users
        SET name = ?, email = ?, password_hash = ?, role = ?, phone = ?, address = ?
        WHERE id = ?
    `, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Phone, u.Address, u.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, dom.ErrEmailAlreadyUsed
		}
		return nil, err
	}
	// MySQL reports 0 affected rows for an unchanged row, so re-read to tell
	// a missing user from a no-op update.
	return r.GetByID(ctx, u.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return dom.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter dom.ListUsersFilter) ([]*dom.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if filter.Role != nil {
		query += ` WHERE role = ?`
		args = append(args, string(*filter.Role))
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*dom.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*dom.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dom.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(s scanner) (*dom.User, error) {
	var u dom.User
	var role string
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Phone, &u.Address, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = dom.Role(role)
	return &u, nil
}
