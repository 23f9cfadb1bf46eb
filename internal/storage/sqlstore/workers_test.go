package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/storage"
)

func TestStorage_CreateWorker(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id, err := s.CreateWorker(ctx, "  أحمد  ")
	require.NoError(t, err)
	assert.Positive(t, id)

	w, err := s.GetWorker(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "أحمد", w.Name, "name is trimmed")

	byName, err := s.GetWorkerByName(ctx, "أحمد")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
}

func TestStorage_CreateWorker_Duplicate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	mustWorker(t, s, "Khaled")

	_, err := s.CreateWorker(ctx, "Khaled")
	require.Error(t, err)

	var dup *errs.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "worker", dup.Entity)
	assert.Equal(t, "Khaled", dup.Name)
	assert.Equal(t, 1, countRows(t, s, "workers"))
}

func TestStorage_CreateWorker_EmptyName(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.CreateWorker(context.Background(), "   ")
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, 0, countRows(t, s, "workers"))
}

func TestStorage_RenameWorker(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id := mustWorker(t, s, "Sara")
	mustWorker(t, s, "Mahmoud")

	require.NoError(t, s.RenameWorker(ctx, id, "Sarah"))
	w, err := s.GetWorker(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Sarah", w.Name)

	// renaming to the current name still matches the row
	require.NoError(t, s.RenameWorker(ctx, id, "Sarah"))

	err = s.RenameWorker(ctx, id, "Mahmoud")
	assert.ErrorIs(t, err, errs.ErrDuplicate)

	err = s.RenameWorker(ctx, 9999, "Nobody")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStorage_DeleteWorker_Unreferenced(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id := mustWorker(t, s, "Temp")

	require.NoError(t, s.DeleteWorker(ctx, id))
	assert.Equal(t, 0, countRows(t, s, "workers"))

	_, err := s.GetWorker(ctx, id)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, s.DeleteWorker(ctx, id), errs.ErrNotFound)
}

func TestStorage_DeleteWorker_ReferencedByOrderLine(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	workerID := mustWorker(t, s, "Ahmed")
	areaID := mustArea(t, s, "Cairo")

	_, err := s.CreateOrder(ctx, storage.NewOrder{
		AreaID: areaID,
		Lines: []storage.NewOrderLine{
			{WorkerID: workerID, Salary: decimal.NewFromInt(5000), Transport: decimal.Zero},
		},
	})
	require.NoError(t, err)

	err = s.DeleteWorker(ctx, workerID)
	require.Error(t, err)

	var ref *errs.ReferentialError
	require.True(t, errors.As(err, &ref))
	assert.Equal(t, workerID, ref.ID)
	assert.Equal(t, 1, countRows(t, s, "workers"), "worker must survive a blocked delete")
}

func TestStorage_DeleteWorker_ReferencedByRate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	workerID := mustWorker(t, s, "Ahmed")
	areaID := mustArea(t, s, "Cairo")
	require.NoError(t, s.UpsertRate(ctx, workerID, areaID, decimal.NewFromInt(7000)))

	assert.ErrorIs(t, s.DeleteWorker(ctx, workerID), errs.ErrReferential)
	assert.ErrorIs(t, s.DeleteArea(ctx, areaID), errs.ErrReferential)
}

func TestStorage_Areas(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	mustArea(t, s, "Hurghada")
	cairo := mustArea(t, s, "Cairo")

	_, err := s.CreateArea(ctx, "Cairo")
	assert.ErrorIs(t, err, errs.ErrDuplicate)

	areas, err := s.ListAreas(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "Cairo", areas[0].Name, "areas are sorted by name")

	require.NoError(t, s.RenameArea(ctx, cairo, "Giza"))
	a, err := s.GetAreaByName(ctx, "Giza")
	require.NoError(t, err)
	assert.Equal(t, cairo, a.ID)

	require.NoError(t, s.DeleteArea(ctx, cairo))
	_, err = s.GetArea(ctx, cairo)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStorage_ListWorkers_Empty(t *testing.T) {
	s := newTestStorage(t)

	workers, err := s.ListWorkers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workers)
}
