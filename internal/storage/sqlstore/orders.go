package sqlstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/storage"
)

// CreateOrder inserts the header and every line in one transaction. Any
// failure rolls back the whole order, so a header without its lines is never
// visible.
func (s *Storage) CreateOrder(ctx context.Context, order storage.NewOrder) (int64, error) {
	const op = "storage.sqlstore.CreateOrder"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.NewPersistenceError(op, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (area_id, address, created_at) VALUES (?, ?, ?)`,
		order.AreaID, order.Address, formatTime(order.CreatedAt),
	)
	if err != nil {
		return 0, errs.NewPersistenceError(op, fmt.Errorf("insert header area=%d: %w", order.AreaID, err))
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, errs.NewPersistenceError(op, fmt.Errorf("last insert id: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_lines (order_id, worker_id, salary, transport) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, errs.NewPersistenceError(op, fmt.Errorf("prepare line insert: %w", err))
	}
	defer stmt.Close()

	for i, l := range order.Lines {
		if _, err := stmt.ExecContext(ctx, orderID, l.WorkerID, storage.Money(l.Salary), storage.Money(l.Transport)); err != nil {
			return 0, errs.NewPersistenceError(op,
				fmt.Errorf("insert line %d worker=%d order=%d: %w", i, l.WorkerID, orderID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errs.NewPersistenceError(op, fmt.Errorf("commit transaction: %w", err))
	}

	return orderID, nil
}

func (s *Storage) GetOrder(ctx context.Context, id int64) (storage.Order, error) {
	const op = "storage.sqlstore.GetOrder"

	var (
		o       storage.Order
		created string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.area_id, a.name, o.address, o.created_at
		FROM orders o
		JOIN areas a ON a.id = o.area_id
		WHERE o.id = ?`, id,
	).Scan(&o.ID, &o.AreaID, &o.AreaName, &o.Address, &created)
	if err != nil {
		return storage.Order{}, fmt.Errorf("%s: order id=%d: %w", op, id, notFound(err))
	}

	o.CreatedAt, err = parseTime(created)
	if err != nil {
		return storage.Order{}, fmt.Errorf("%s: order id=%d created_at %q: %w", op, id, created, err)
	}

	return o, nil
}

func (s *Storage) GetOrderLines(ctx context.Context, orderID int64) ([]storage.OrderLine, error) {
	const op = "storage.sqlstore.GetOrderLines"

	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.order_id, l.worker_id, w.name, l.salary, l.transport
		FROM order_lines l
		JOIN workers w ON w.id = l.worker_id
		WHERE l.order_id = ?
		ORDER BY l.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: order id=%d: %w", op, orderID, err)
	}
	defer rows.Close()

	var lines []storage.OrderLine
	for rows.Next() {
		var l storage.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.WorkerID, &l.WorkerName, &l.Salary, &l.Transport); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}

	return lines, nil
}

// ListOrders returns every order, newest first, with totals computed from the
// lines on each read.
func (s *Storage) ListOrders(ctx context.Context) ([]storage.OrderSummary, error) {
	const op = "storage.sqlstore.ListOrders"

	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, a.name, o.address, o.created_at, l.salary, l.transport
		FROM orders o
		JOIN areas a ON a.id = o.area_id
		LEFT JOIN order_lines l ON l.order_id = o.id
		ORDER BY o.id DESC, l.id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var summaries []storage.OrderSummary
	for rows.Next() {
		var (
			id                int64
			area, address     string
			created           string
			salary, transport decimal.NullDecimal
		)
		if err := rows.Scan(&id, &area, &address, &created, &salary, &transport); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		if len(summaries) == 0 || summaries[len(summaries)-1].ID != id {
			createdAt, err := parseTime(created)
			if err != nil {
				return nil, fmt.Errorf("%s: order id=%d created_at %q: %w", op, id, created, err)
			}
			summaries = append(summaries, storage.OrderSummary{
				ID:        id,
				AreaName:  area,
				Address:   address,
				CreatedAt: createdAt,
				Total:     decimal.Zero,
			})
		}

		if salary.Valid {
			cur := &summaries[len(summaries)-1]
			cur.Lines++
			cur.Total = cur.Total.Add(salary.Decimal).Add(transport.Decimal)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}

	return summaries, nil
}
