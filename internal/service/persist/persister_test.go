package persist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"worker-payroll/internal/config"
	"worker-payroll/internal/errs"
	"worker-payroll/internal/service/builder"
	"worker-payroll/internal/service/rates"
	"worker-payroll/internal/storage"
	"worker-payroll/internal/storage/sqlstore"
)

type MockOrderStorage struct {
	mock.Mock
}

func (m *MockOrderStorage) GetArea(ctx context.Context, id int64) (storage.Area, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(storage.Area), args.Error(1)
}

func (m *MockOrderStorage) CreateOrder(ctx context.Context, order storage.NewOrder) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

func newPersister(st OrderStorage) *Persister {
	p := New(discardLogger(), st)
	p.now = func() time.Time { return fixedNow }
	return p
}

func snapshotAB() builder.Snapshot {
	return builder.Snapshot{
		Area: storage.Area{ID: 1, Name: "Hurghada"},
		Lines: []builder.Line{
			{Worker: storage.Worker{ID: 10, Name: "A"}, Salary: decimal.NewFromInt(5000), Transport: decimal.Zero},
			{Worker: storage.Worker{ID: 11, Name: "B"}, Salary: decimal.NewFromInt(5400), Transport: decimal.NewFromInt(250)},
		},
	}
}

func TestPersister_Commit(t *testing.T) {
	st := new(MockOrderStorage)
	st.On("GetArea", mock.Anything, int64(1)).Return(storage.Area{ID: 1, Name: "Hurghada"}, nil)
	st.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o storage.NewOrder) bool {
		return o.AreaID == 1 &&
			o.Address == "Sheraton Road" &&
			o.CreatedAt.Equal(fixedNow) &&
			len(o.Lines) == 2 &&
			o.Lines[1].WorkerID == 11 &&
			o.Lines[1].Transport.Equal(decimal.NewFromInt(250))
	})).Return(int64(7), nil)

	id, err := newPersister(st).Commit(context.Background(), 1, "  Sheraton Road ", snapshotAB())

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	st.AssertExpectations(t)
}

func TestPersister_Commit_EmptySelection(t *testing.T) {
	st := new(MockOrderStorage)

	_, err := newPersister(st).Commit(context.Background(), 1, "", builder.Snapshot{})

	assert.ErrorIs(t, err, errs.ErrEmptySelection)
	st.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestPersister_Commit_InvalidArea(t *testing.T) {
	st := new(MockOrderStorage)
	st.On("GetArea", mock.Anything, int64(99)).Return(storage.Area{}, errs.ErrNotFound)

	p := newPersister(st)

	_, err := p.Commit(context.Background(), 0, "", snapshotAB())
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = p.Commit(context.Background(), 99, "", snapshotAB())
	assert.ErrorIs(t, err, errs.ErrValidation)

	st.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestPersister_Commit_StorageFailure(t *testing.T) {
	st := new(MockOrderStorage)
	st.On("GetArea", mock.Anything, int64(1)).Return(storage.Area{ID: 1}, nil)
	st.On("CreateOrder", mock.Anything, mock.Anything).Return(int64(0), errors.New("database is locked"))

	_, err := newPersister(st).Commit(context.Background(), 1, "", snapshotAB())

	assert.ErrorIs(t, err, errs.ErrPersistence)
	assert.Contains(t, err.Error(), "database is locked")
}

func newSQLite(t *testing.T) *sqlstore.Storage {
	t.Helper()

	s, err := sqlstore.New(config.Storage{Driver: config.DriverSQLite, Path: t.TempDir() + "/payroll.db"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	return s
}

func TestPersister_CommitBuilder(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	aID, err := s.CreateWorker(ctx, "A")
	require.NoError(t, err)
	bID, err := s.CreateWorker(ctx, "B")
	require.NoError(t, err)
	areaID, err := s.CreateArea(ctx, "Hurghada")
	require.NoError(t, err)
	require.NoError(t, s.UpsertRate(ctx, aID, areaID, decimal.NewFromInt(5000)))
	require.NoError(t, s.UpsertRate(ctx, bID, areaID, decimal.NewFromInt(5400)))

	area := storage.Area{ID: areaID, Name: "Hurghada"}
	b := builder.New(discardLogger(), rates.NewResolver(s), rates.PolicyReject, decimal.Zero)
	require.NoError(t, b.SelectArea(area))
	require.NoError(t, b.AddWorkers(ctx, area, []storage.Worker{{ID: aID, Name: "A"}, {ID: bID, Name: "B"}}))
	require.NoError(t, b.SetTransport(1, "250"))

	p := New(discardLogger(), s)
	id, err := p.CommitBuilder(ctx, b, "")
	require.NoError(t, err)
	assert.Equal(t, builder.StateEmpty, b.State())

	lines, err := s.GetOrderLines(ctx, id)
	require.NoError(t, err)
	assert.True(t, storage.GrandTotal(lines).Equal(decimal.NewFromInt(10650)))

	// empty builder is refused and writes nothing
	_, err = p.CommitBuilder(ctx, b, "")
	assert.ErrorIs(t, err, errs.ErrEmptySelection)

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPersister_CommitBuilder_KeepsStateOnFailure(t *testing.T) {
	st := new(MockOrderStorage)
	st.On("GetArea", mock.Anything, int64(1)).Return(storage.Area{ID: 1}, nil)
	st.On("CreateOrder", mock.Anything, mock.Anything).Return(int64(0), errs.NewPersistenceError("test", errors.New("boom")))

	r := new(mockResolver)
	r.On("Resolve", mock.Anything, int64(10), int64(1)).Return(decimal.NewFromInt(5000), nil)

	b := builder.New(discardLogger(), r, rates.PolicyFallback, decimal.Zero)
	require.NoError(t, b.AddWorkers(context.Background(), storage.Area{ID: 1, Name: "Hurghada"}, []storage.Worker{{ID: 10, Name: "A"}}))

	_, err := newPersister(st).CommitBuilder(context.Background(), b, "")

	assert.ErrorIs(t, err, errs.ErrPersistence)
	assert.Len(t, b.Lines(), 1)
	assert.Equal(t, builder.StateFinalized, b.State())
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, workerID, areaID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, workerID, areaID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
