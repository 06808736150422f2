package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/orders-api/internal/domain/order"
)

const (
	listOrdersSQL = `SELECT id, customer, created_at, total, version FROM orders ORDER BY id`

	getOrderByIDSQL = `SELECT id, customer, created_at, total, version FROM orders WHERE id = $1`

	// Display names resolve against the current catalog; deleted products
	// fall back to the 'Unknown' placeholder.
	listAllLinesSQL = `SELECT ol.id, ol.order_id, ol.product_id, COALESCE(p.name, 'Unknown'),
			ol.quantity, ol.unit_price
		FROM order_lines ol
		LEFT JOIN products p ON p.id = ol.product_id
		ORDER BY ol.order_id, ol.id`

	getLinesByOrderSQL = `SELECT ol.id, ol.order_id, ol.product_id, COALESCE(p.name, 'Unknown'),
			ol.quantity, ol.unit_price
		FROM order_lines ol
		LEFT JOIN products p ON p.id = ol.product_id
		WHERE ol.order_id = $1
		ORDER BY ol.id`

	createOrderSQL = `INSERT INTO orders (customer, total) VALUES ($1, $2)
		RETURNING id, created_at, version`

	insertLineSQL = `INSERT INTO order_lines (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4) RETURNING id`

	replaceOrderSQL = `UPDATE orders SET customer = $1, total = $2, version = version + 1
		WHERE id = $3 AND version = $4`

	deleteLinesSQL = `DELETE FROM order_lines WHERE order_id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Writes
// touching both the orders row and its lines run in a single transaction.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// List returns all orders with their lines embedded.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lineRows, err := r.pool.Query(ctx, listAllLinesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing order lines: %w", err)
	}
	defer lineRows.Close()

	byOrder := make(map[int64][]order.Line)
	for lineRows.Next() {
		l, orderID, err := scanLine(lineRows)
		if err != nil {
			return nil, fmt.Errorf("scanning order line: %w", err)
		}
		byOrder[orderID] = append(byOrder[orderID], l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("listing order lines: %w", err)
	}

	for i := range orders {
		orders[i].Lines = byOrder[orders[i].ID]
	}
	return orders, nil
}

// GetByID returns a single order with its lines.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	lineRows, err := r.pool.Query(ctx, getLinesByOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting lines for order %d: %w", id, err)
	}
	o.Lines, err = pgx.CollectRows(lineRows, func(row pgx.CollectableRow) (order.Line, error) {
		l, _, err := scanLine(row)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("getting lines for order %d: %w", id, err)
	}
	return &o, nil
}

// Create persists a new order and its lines atomically. The generated IDs,
// creation timestamp and version are filled in on o.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, createOrderSQL, o.Customer, o.Total).
			Scan(&o.ID, &o.CreatedAt, &o.Version)
		if err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		return insertLines(ctx, tx, o)
	})
}

// Replace overwrites the order row guarded by its version, discards the
// previous lines and inserts the replacement set, all in one transaction.
// A version mismatch on a still-existing row reports order.ErrConflict.
func (r *OrderRepository) Replace(ctx context.Context, o *order.Order) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, replaceOrderSQL, o.Customer, o.Total, o.ID, o.Version)
		if err != nil {
			return fmt.Errorf("updating order %d: %w", o.ID, err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, o.ID,
			).Scan(&exists); err != nil {
				return fmt.Errorf("checking order %d: %w", o.ID, err)
			}
			if !exists {
				return order.ErrNotFound
			}
			return order.ErrConflict
		}
		o.Version++

		if _, err := tx.Exec(ctx, deleteLinesSQL, o.ID); err != nil {
			return fmt.Errorf("clearing lines for order %d: %w", o.ID, err)
		}
		return insertLines(ctx, tx, o)
	})
}

// Delete removes an order; its lines go by FK cascade.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, o *order.Order) error {
	for i := range o.Lines {
		l := &o.Lines[i]
		err := tx.QueryRow(ctx, insertLineSQL, o.ID, l.ProductID, l.Quantity, l.UnitPrice).
			Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("inserting line for product %d: %w", l.ProductID, err)
		}
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.Customer, &o.CreatedAt, &o.Total, &o.Version)
	return o, err
}

func scanLine(row pgx.CollectableRow) (order.Line, int64, error) {
	var (
		l       order.Line
		orderID int64
	)
	err := row.Scan(&l.ID, &orderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice)
	return l, orderID, err
}
