package sqlstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type seedRate struct {
	worker string
	area   string
	salary int64
}

var (
	seedWorkers = []string{"أحمد", "محمد", "خالد", "محمود", "سارة"}
	seedAreas   = []string{"الغردقة", "القاهرة", "الإسكندرية"}
	seedRates   = []seedRate{
		{worker: "أحمد", area: "الغردقة", salary: 5000},
		{worker: "محمد", area: "الغردقة", salary: 5400},
		{worker: "خالد", area: "الغردقة", salary: 4800},
		{worker: "محمود", area: "القاهرة", salary: 6100},
		{worker: "سارة", area: "الإسكندرية", salary: 5900},
		{worker: "أحمد", area: "القاهرة", salary: 7000},
	}
)

// Seed fills an empty database with demo workers, areas and rates. It does
// nothing and returns false when at least one worker already exists.
func (s *Storage) Seed(ctx context.Context) (bool, error) {
	const op = "storage.sqlstore.Seed"

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workers`).Scan(&count); err != nil {
		return false, fmt.Errorf("%s: count workers: %w", op, err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	workerIDs := make(map[string]int64, len(seedWorkers))
	for _, name := range seedWorkers {
		res, err := tx.ExecContext(ctx, `INSERT INTO workers (name) VALUES (?)`, name)
		if err != nil {
			return false, fmt.Errorf("%s: insert worker %s: %w", op, name, err)
		}
		if workerIDs[name], err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("%s: worker id: %w", op, err)
		}
	}

	areaIDs := make(map[string]int64, len(seedAreas))
	for _, name := range seedAreas {
		res, err := tx.ExecContext(ctx, `INSERT INTO areas (name) VALUES (?)`, name)
		if err != nil {
			return false, fmt.Errorf("%s: insert area %s: %w", op, name, err)
		}
		if areaIDs[name], err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("%s: area id: %w", op, err)
		}
	}

	for _, r := range seedRates {
		if _, err := tx.ExecContext(ctx, s.dialect.upsertRate,
			workerIDs[r.worker], areaIDs[r.area], decimal.NewFromInt(r.salary)); err != nil {
			return false, fmt.Errorf("%s: insert rate %s/%s: %w", op, r.worker, r.area, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return true, nil
}
