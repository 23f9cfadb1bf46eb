package sqlstore

import (
	"context"

	"worker-payroll/internal/storage"
)

func (s *Storage) CreateWorker(ctx context.Context, name string) (int64, error) {
	const op = "storage.sqlstore.CreateWorker"

	return s.createNamed(ctx, op, workersTable, name)
}

func (s *Storage) RenameWorker(ctx context.Context, id int64, name string) error {
	const op = "storage.sqlstore.RenameWorker"

	return s.renameNamed(ctx, op, workersTable, id, name)
}

// DeleteWorker fails with errs.ReferentialError while a rate entry or an
// order line still points at the worker.
func (s *Storage) DeleteWorker(ctx context.Context, id int64) error {
	const op = "storage.sqlstore.DeleteWorker"

	return s.deleteNamed(ctx, op, workersTable, id)
}

func (s *Storage) ListWorkers(ctx context.Context) ([]storage.Worker, error) {
	const op = "storage.sqlstore.ListWorkers"

	rows, err := s.listNamed(ctx, op, workersTable)
	if err != nil {
		return nil, err
	}

	workers := make([]storage.Worker, 0, len(rows))
	for _, r := range rows {
		workers = append(workers, storage.Worker{ID: r.ID, Name: r.Name})
	}

	return workers, nil
}

func (s *Storage) GetWorker(ctx context.Context, id int64) (storage.Worker, error) {
	const op = "storage.sqlstore.GetWorker"

	r, err := s.getNamed(ctx, op, workersTable, "id", id)
	if err != nil {
		return storage.Worker{}, err
	}

	return storage.Worker{ID: r.ID, Name: r.Name}, nil
}

func (s *Storage) GetWorkerByName(ctx context.Context, name string) (storage.Worker, error) {
	const op = "storage.sqlstore.GetWorkerByName"

	r, err := s.getNamed(ctx, op, workersTable, "name", name)
	if err != nil {
		return storage.Worker{}, err
	}

	return storage.Worker{ID: r.ID, Name: r.Name}, nil
}
