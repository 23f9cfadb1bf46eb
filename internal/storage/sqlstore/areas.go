package sqlstore

import (
	"context"

	"worker-payroll/internal/storage"
)

func (s *Storage) CreateArea(ctx context.Context, name string) (int64, error) {
	const op = "storage.sqlstore.CreateArea"

	return s.createNamed(ctx, op, areasTable, name)
}

func (s *Storage) RenameArea(ctx context.Context, id int64, name string) error {
	const op = "storage.sqlstore.RenameArea"

	return s.renameNamed(ctx, op, areasTable, id, name)
}

func (s *Storage) DeleteArea(ctx context.Context, id int64) error {
	const op = "storage.sqlstore.DeleteArea"

	return s.deleteNamed(ctx, op, areasTable, id)
}

func (s *Storage) ListAreas(ctx context.Context) ([]storage.Area, error) {
	const op = "storage.sqlstore.ListAreas"

	rows, err := s.listNamed(ctx, op, areasTable)
	if err != nil {
		return nil, err
	}

	areas := make([]storage.Area, 0, len(rows))
	for _, r := range rows {
		areas = append(areas, storage.Area{ID: r.ID, Name: r.Name})
	}

	return areas, nil
}

func (s *Storage) GetArea(ctx context.Context, id int64) (storage.Area, error) {
	const op = "storage.sqlstore.GetArea"

	r, err := s.getNamed(ctx, op, areasTable, "id", id)
	if err != nil {
		return storage.Area{}, err
	}

	return storage.Area{ID: r.ID, Name: r.Name}, nil
}

func (s *Storage) GetAreaByName(ctx context.Context, name string) (storage.Area, error) {
	const op = "storage.sqlstore.GetAreaByName"

	r, err := s.getNamed(ctx, op, areasTable, "name", name)
	if err != nil {
		return storage.Area{}, err
	}

	return storage.Area{ID: r.ID, Name: r.Name}, nil
}
