package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/storage"
)

// UpsertRate stores the salary of a worker in an area, rounded to cents. A
// second write for the same pair replaces the first.
func (s *Storage) UpsertRate(ctx context.Context, workerID, areaID int64, salary decimal.Decimal) error {
	const op = "storage.sqlstore.UpsertRate"

	salary = storage.Money(salary)

	_, err := s.db.ExecContext(ctx, s.dialect.upsertRate, workerID, areaID, salary)
	if err != nil {
		if s.dialect.isForeignKey(err) {
			return fmt.Errorf("%s: %w", op, errs.NewValidationErrorWithCause("worker/area",
				fmt.Sprintf("unknown worker id=%d or area id=%d", workerID, areaID), err))
		}
		return fmt.Errorf("%s: worker=%d area=%d: %w", op, workerID, areaID, err)
	}

	return nil
}

// GetRate returns errs.ErrRateNotFound when no salary is configured for the pair.
func (s *Storage) GetRate(ctx context.Context, workerID, areaID int64) (decimal.Decimal, error) {
	const op = "storage.sqlstore.GetRate"

	var salary decimal.Decimal
	err := s.db.QueryRowContext(ctx,
		`SELECT salary FROM worker_area_rates WHERE worker_id = ? AND area_id = ?`,
		workerID, areaID,
	).Scan(&salary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%s: worker=%d area=%d: %w", op, workerID, areaID, errs.ErrRateNotFound)
		}
		return decimal.Zero, fmt.Errorf("%s: worker=%d area=%d: %w", op, workerID, areaID, err)
	}

	return salary, nil
}

func (s *Storage) ListRates(ctx context.Context) ([]storage.RateEntry, error) {
	const op = "storage.sqlstore.ListRates"

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, w.id, w.name, a.id, a.name, r.salary
		FROM worker_area_rates r
		JOIN workers w ON w.id = r.worker_id
		JOIN areas a ON a.id = r.area_id
		ORDER BY a.name, w.name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rates []storage.RateEntry
	for rows.Next() {
		var r storage.RateEntry
		if err := rows.Scan(&r.ID, &r.WorkerID, &r.WorkerName, &r.AreaID, &r.AreaName, &r.Salary); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		rates = append(rates, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}

	return rates, nil
}

// ListAreaRates returns the workers that have a salary configured for the area.
func (s *Storage) ListAreaRates(ctx context.Context, areaID int64) ([]storage.WorkerRate, error) {
	const op = "storage.sqlstore.ListAreaRates"

	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id, w.name, r.salary
		FROM workers w
		JOIN worker_area_rates r ON r.worker_id = w.id
		WHERE r.area_id = ?
		ORDER BY w.name`, areaID)
	if err != nil {
		return nil, fmt.Errorf("%s: area=%d: %w", op, areaID, err)
	}
	defer rows.Close()

	var result []storage.WorkerRate
	for rows.Next() {
		var wr storage.WorkerRate
		if err := rows.Scan(&wr.Worker.ID, &wr.Worker.Name, &wr.Salary); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		result = append(result, wr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}

	return result, nil
}

func (s *Storage) DeleteRate(ctx context.Context, id int64) error {
	const op = "storage.sqlstore.DeleteRate"

	res, err := s.db.ExecContext(ctx, `DELETE FROM worker_area_rates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: id=%d: %w", op, id, err)
	}

	return expectOneRow(op, "rate", id, res)
}
