package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domorder "example.com/storefront/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, status, payment_method, payment_status, total_amount, shipping_address, created_at, updated_at`

func (r *OrderRepository) Create(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, item := range o.Items {
		var stock int64
		err := tx.QueryRowContext(ctx, `
            SELECT stock FROM products WHERE id = ? AND is_active = 1 FOR UPDATE
        `, item.ProductID).Scan(&stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("product %d: %w", item.ProductID, domorder.ErrCheckoutValidation)
			}
			return nil, err
		}
		if stock < item.Quantity {
			return nil, fmt.Errorf("product %d has %d left: %w", item.ProductID, stock, domorder.ErrCheckoutValidation)
		}
	}

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (user_id, status, payment_method, payment_status, total_amount, shipping_address)
        VALUES (?, ?, ?, ?, ?, ?)
    `, o.UserID, o.Status, o.PaymentMethod, o.PaymentStatus, o.TotalAmount, addr)
	if err != nil {
		return nil, err
	}
	orderID, _ := res.LastInsertId()

	for _, item := range o.Items {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, image)
            VALUES (?, ?, ?, ?, ?, ?)
        `, orderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Image); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `
            UPDATE products SET stock = stock - ? WHERE id = ?
        `, item.Quantity, item.ProductID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// The order exists from here on; a failed re-read must not look like a
	// failed checkout.
	created, err := r.GetByID(context.WithoutCancel(ctx), orderID)
	if err != nil {
		return committedOrder(o, orderID, time.Now()), nil
	}
	return created, nil
}

// committedOrder is the order as written by Create, used when it cannot be
// read back.
func committedOrder(o *domorder.Order, orderID int64, at time.Time) *domorder.Order {
	out := *o
	out.ID = orderID
	out.CreatedAt = at
	out.UpdatedAt = at
	out.Items = make([]domorder.OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.OrderID = orderID
		out.Items[i] = it
	}
	return &out
}

func (r *OrderRepository) List(ctx context.Context, filter domorder.ListFilter) ([]*domorder.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if filter.UserID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Items, err = r.listOrderItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	if o.Items, err = r.listOrderItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domorder.Status, payment *domorder.PaymentStatus) (*domorder.Order, error) {
	query := `UPDATE orders SET status = ?`
	args := []any{status}
	if payment != nil {
		query += `, payment_status = ?`
		args = append(args, *payment)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID int64) ([]domorder.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, product_name, unit_price, quantity, image
        FROM order_items WHERE order_id = ?
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.OrderItem
	for rows.Next() {
		var item domorder.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(s scanner) (*domorder.Order, error) {
	var o domorder.Order
	var addr []byte
	if err := s.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.TotalAmount,
		&addr, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if len(addr) > 0 {
		if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("decode shipping address: %w", err)
		}
	}
	return &o, nil
}
