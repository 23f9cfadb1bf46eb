package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/storage"
)

type MockRateStorage struct {
	mock.Mock
}

func (m *MockRateStorage) GetRate(ctx context.Context, workerID, areaID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, workerID, areaID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateStorage) ListAreaRates(ctx context.Context, areaID int64) ([]storage.WorkerRate, error) {
	args := m.Called(ctx, areaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.WorkerRate), args.Error(1)
}

func (m *MockRateStorage) ListWorkers(ctx context.Context) ([]storage.Worker, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Worker), args.Error(1)
}

func TestResolver_Resolve(t *testing.T) {
	st := new(MockRateStorage)
	st.On("GetRate", mock.Anything, int64(1), int64(2)).Return(decimal.NewFromInt(5400), nil)

	salary, err := NewResolver(st).Resolve(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.True(t, salary.Equal(decimal.NewFromInt(5400)))
	st.AssertExpectations(t)
}

func TestResolver_Resolve_NotFoundIsSignalledNotSubstituted(t *testing.T) {
	st := new(MockRateStorage)
	st.On("GetRate", mock.Anything, int64(1), int64(2)).Return(decimal.Zero, errs.ErrRateNotFound)

	salary, err := NewResolver(st).Resolve(context.Background(), 1, 2)

	assert.ErrorIs(t, err, errs.ErrRateNotFound)
	assert.True(t, salary.IsZero())
}

func TestResolver_Resolve_StorageError(t *testing.T) {
	st := new(MockRateStorage)
	st.On("GetRate", mock.Anything, int64(1), int64(2)).Return(decimal.Zero, errors.New("database is locked"))

	_, err := NewResolver(st).Resolve(context.Background(), 1, 2)

	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrRateNotFound)
	assert.Contains(t, err.Error(), "service.rates.Resolve")
}

func TestCandidates_ConfiguredRates(t *testing.T) {
	st := new(MockRateStorage)
	st.On("ListAreaRates", mock.Anything, int64(3)).Return([]storage.WorkerRate{
		{Worker: storage.Worker{ID: 1, Name: "Ahmed"}, Salary: decimal.NewFromInt(5000)},
	}, nil)

	got, err := Candidates(context.Background(), st, 3, PolicyFallback, decimal.NewFromInt(5000))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SourceConfigured, got[0].Source)
	st.AssertNotCalled(t, "ListWorkers", mock.Anything)
}

func TestCandidates_FallbackIsExplicit(t *testing.T) {
	st := new(MockRateStorage)
	st.On("ListAreaRates", mock.Anything, int64(3)).Return(nil, nil)
	st.On("ListWorkers", mock.Anything).Return([]storage.Worker{{ID: 1, Name: "Ahmed"}, {ID: 2, Name: "Sara"}}, nil)

	got, err := Candidates(context.Background(), st, 3, PolicyFallback, decimal.NewFromInt(5000))

	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, SourceFallback, c.Source)
		assert.True(t, c.Salary.Equal(decimal.NewFromInt(5000)))
	}
}

func TestCandidates_RejectPolicyReturnsNothing(t *testing.T) {
	st := new(MockRateStorage)
	st.On("ListAreaRates", mock.Anything, int64(3)).Return(nil, nil)

	got, err := Candidates(context.Background(), st, 3, PolicyReject, decimal.NewFromInt(5000))

	require.NoError(t, err)
	assert.Empty(t, got)
	st.AssertNotCalled(t, "ListWorkers", mock.Anything)
}
