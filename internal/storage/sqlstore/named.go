package sqlstore

import (
	"context"
	"fmt"

	"worker-payroll/internal/errs"
)

// namedTable describes a table whose rows are identified by a unique name.
// Workers and areas share the same CRUD rules.
type namedTable struct {
	table  string
	entity string
}

var (
	workersTable = namedTable{table: "workers", entity: "worker"}
	areasTable   = namedTable{table: "areas", entity: "area"}
)

type namedRow struct {
	ID   int64
	Name string
}

func (s *Storage) createNamed(ctx context.Context, op string, t namedTable, name string) (int64, error) {
	name, err := cleanName(t.entity, name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO `+t.table+` (name) VALUES (?)`, name)
	if err != nil {
		if s.dialect.isUnique(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.NewDuplicateError(t.entity, name))
		}
		return 0, fmt.Errorf("%s: insert %s: %w", op, t.entity, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	return id, nil
}

func (s *Storage) renameNamed(ctx context.Context, op string, t namedTable, id int64, name string) error {
	name, err := cleanName(t.entity, name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE `+t.table+` SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		if s.dialect.isUnique(err) {
			return fmt.Errorf("%s: %w", op, errs.NewDuplicateError(t.entity, name))
		}
		return fmt.Errorf("%s: update %s id=%d: %w", op, t.entity, id, err)
	}

	return expectOneRow(op, t.entity, id, res)
}

func (s *Storage) deleteNamed(ctx context.Context, op string, t namedTable, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+t.table+` WHERE id = ?`, id)
	if err != nil {
		if s.dialect.isForeignKey(err) {
			return fmt.Errorf("%s: %w", op, errs.NewReferentialError(t.entity, id, err))
		}
		return fmt.Errorf("%s: delete %s id=%d: %w", op, t.entity, id, err)
	}

	return expectOneRow(op, t.entity, id, res)
}

func (s *Storage) listNamed(ctx context.Context, op string, t namedTable) ([]namedRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM `+t.table+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: query %s: %w", op, t.table, err)
	}
	defer rows.Close()

	var result []namedRow
	for rows.Next() {
		var r namedRow
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("%s: scan %s: %w", op, t.entity, err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate %s: %w", op, t.table, err)
	}

	return result, nil
}

func (s *Storage) getNamed(ctx context.Context, op string, t namedTable, column string, arg any) (namedRow, error) {
	var r namedRow

	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM `+t.table+` WHERE `+column+` = ?`, arg).Scan(&r.ID, &r.Name)
	if err != nil {
		return namedRow{}, fmt.Errorf("%s: %s %v: %w", op, t.entity, arg, notFound(err))
	}

	return r, nil
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOneRow(op, entity string, id int64, res rowsAffecter) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %s id=%d: %w", op, entity, id, errs.ErrNotFound)
	}
	return nil
}
