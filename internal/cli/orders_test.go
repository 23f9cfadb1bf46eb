package cli

import (
	"bytes"
	"context"
	"errors"
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
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, workerID, areaID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, workerID, areaID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockCommitter struct {
	mock.Mock
	snapshot builder.Snapshot
}

func (m *MockCommitter) CommitBuilder(ctx context.Context, b *builder.Builder, address string) (int64, error) {
	args := m.Called(ctx, address)
	if err := args.Error(1); err != nil {
		return 0, err
	}
	snap, err := b.Snapshot()
	if err != nil {
		return 0, err
	}
	m.snapshot = snap
	b.MarkPersisted()
	return args.Get(0).(int64), nil
}

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) ListOrders(ctx context.Context) ([]storage.OrderSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]storage.OrderSummary), args.Error(1)
}

func (m *MockOrders) GetOrder(ctx context.Context, id int64) (storage.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(storage.Order), args.Error(1)
}

func (m *MockOrders) GetOrderLines(ctx context.Context, orderID int64) ([]storage.OrderLine, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]storage.OrderLine), args.Error(1)
}

func (m *MockOrders) Export(ctx context.Context, orderID int64, dir, format string) (string, error) {
	args := m.Called(ctx, orderID, dir, format)
	return args.String(0), args.Error(1)
}

var (
	hurghada = storage.Area{ID: 1, Name: "Hurghada"}
	workerA  = storage.Worker{ID: 10, Name: "A"}
	workerB  = storage.Worker{ID: 11, Name: "B"}
)

func orderFixture() (*MockStorage, func() *builder.Builder, Pricing) {
	st := new(MockStorage)
	st.On("GetAreaByName", mock.Anything, "Hurghada").Return(hurghada, nil)
	st.On("GetWorkerByName", mock.Anything, "A").Return(workerA, nil)
	st.On("GetWorkerByName", mock.Anything, "B").Return(workerB, nil)
	st.On("ListAreaRates", mock.Anything, hurghada.ID).Return([]storage.WorkerRate{
		{Worker: workerA, Salary: decimal.NewFromInt(5000)},
		{Worker: workerB, Salary: decimal.NewFromInt(5400)},
	}, nil)

	r := new(MockResolver)
	r.On("Resolve", mock.Anything, workerA.ID, hurghada.ID).Return(decimal.NewFromInt(5000), nil)
	r.On("Resolve", mock.Anything, workerB.ID, hurghada.ID).Return(decimal.NewFromInt(5400), nil)

	pricing := Pricing{Policy: rates.PolicyFallback, Fallback: decimal.NewFromInt(5000)}
	newBuilder := func() *builder.Builder {
		return builder.New(discardLogger(), r, pricing.Policy, pricing.Fallback)
	}

	return st, newBuilder, pricing
}

func TestCreateOrder(t *testing.T) {
	st, newBuilder, pricing := orderFixture()
	c := new(MockCommitter)
	c.On("CommitBuilder", mock.Anything, "Sheraton Road").Return(int64(12), nil)

	var out bytes.Buffer
	err := CreateOrder(discardLogger(), st, newBuilder, pricing, c)(context.Background(), []string{
		"-area", "Hurghada",
		"-worker", "A", "-worker", "B",
		"-transport", "B=250",
		"-address", "Sheraton Road",
	}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "total: 10650.00")
	assert.Contains(t, out.String(), "order 12 saved")
	require.Len(t, c.snapshot.Lines, 2)
	assert.True(t, c.snapshot.GrandTotal().Equal(decimal.NewFromInt(10650)))
}

func TestCreateOrder_AllCandidatesDryRun(t *testing.T) {
	st, newBuilder, pricing := orderFixture()
	c := new(MockCommitter)

	var out bytes.Buffer
	err := CreateOrder(discardLogger(), st, newBuilder, pricing, c)(context.Background(),
		[]string{"-area", "Hurghada", "-all", "-dry-run"}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "total: 10400.00")
	c.AssertNotCalled(t, "CommitBuilder", mock.Anything, mock.Anything)
}

func TestCreateOrder_NoWorkers(t *testing.T) {
	st, newBuilder, pricing := orderFixture()
	c := new(MockCommitter)

	err := CreateOrder(discardLogger(), st, newBuilder, pricing, c)(context.Background(),
		[]string{"-area", "Hurghada"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, errs.ErrValidation)
	c.AssertNotCalled(t, "CommitBuilder", mock.Anything, mock.Anything)
}

func TestCreateOrder_TransportPrefersWorkerID(t *testing.T) {
	st, newBuilder, pricing := orderFixture()
	named11 := storage.Worker{ID: 12, Name: "11"}
	st.On("GetWorker", mock.Anything, int64(12)).Return(named11, nil)

	r := new(MockResolver)
	r.On("Resolve", mock.Anything, workerB.ID, hurghada.ID).Return(decimal.NewFromInt(5400), nil)
	r.On("Resolve", mock.Anything, named11.ID, hurghada.ID).Return(decimal.NewFromInt(4000), nil)
	newBuilder = func() *builder.Builder {
		return builder.New(discardLogger(), r, pricing.Policy, pricing.Fallback)
	}
	c := new(MockCommitter)
	c.On("CommitBuilder", mock.Anything, "").Return(int64(3), nil)

	// "11" is worker B's id and also the name of worker 12
	err := CreateOrder(discardLogger(), st, newBuilder, pricing, c)(context.Background(), []string{
		"-area", "Hurghada",
		"-worker", "12", "-worker", "B",
		"-transport", "11=250",
	}, &bytes.Buffer{})

	require.NoError(t, err)
	require.Len(t, c.snapshot.Lines, 2)
	assert.True(t, c.snapshot.Lines[0].Transport.IsZero(), "worker named 11 untouched")
	assert.True(t, c.snapshot.Lines[1].Transport.Equal(decimal.NewFromInt(250)))
}

func TestCreateOrder_BadTransport(t *testing.T) {
	st, newBuilder, pricing := orderFixture()
	c := new(MockCommitter)

	for _, tr := range []string{"B=abc", "B250", "Z=10"} {
		err := CreateOrder(discardLogger(), st, newBuilder, pricing, c)(context.Background(),
			[]string{"-area", "Hurghada", "-worker", "B", "-transport", tr}, &bytes.Buffer{})
		assert.ErrorIs(t, err, errs.ErrValidation, tr)
	}
	c.AssertNotCalled(t, "CommitBuilder", mock.Anything, mock.Anything)
}

func TestCreateOrder_CommitFailure(t *testing.T) {
	st, newBuilder, pricing := orderFixture()
	c := new(MockCommitter)
	c.On("CommitBuilder", mock.Anything, "").Return(int64(0), errs.NewPersistenceError("test", errors.New("disk full")))

	err := CreateOrder(discardLogger(), st, newBuilder, pricing, c)(context.Background(),
		[]string{"-area", "Hurghada", "-worker", "A"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, errs.ErrPersistence)
	assert.False(t, errs.IsOperatorError(err))
}

func TestCandidates_Fallback(t *testing.T) {
	st := new(MockStorage)
	st.On("GetArea", mock.Anything, int64(3)).Return(storage.Area{ID: 3, Name: "Cairo"}, nil)
	st.On("ListAreaRates", mock.Anything, int64(3)).Return(nil, nil)
	st.On("ListWorkers", mock.Anything).Return([]storage.Worker{workerA}, nil)

	var out bytes.Buffer
	err := Candidates(discardLogger(), st, Pricing{Policy: rates.PolicyFallback, Fallback: decimal.NewFromInt(5000)})(
		context.Background(), []string{"-area", "3"}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "5000.00")
	assert.Contains(t, out.String(), string(rates.SourceFallback))
}

func TestShowOrder(t *testing.T) {
	o := new(MockOrders)
	o.On("GetOrder", mock.Anything, int64(7)).Return(storage.Order{
		ID: 7, AreaName: "Hurghada", CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}, nil)
	o.On("GetOrderLines", mock.Anything, int64(7)).Return([]storage.OrderLine{
		{WorkerName: "A", Salary: decimal.NewFromInt(5000), Transport: decimal.Zero},
		{WorkerName: "B", Salary: decimal.NewFromInt(5400), Transport: decimal.NewFromInt(250)},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, ShowOrder(discardLogger(), o)(context.Background(), []string{"7"}, &out))

	assert.Contains(t, out.String(), "order 7")
	assert.Contains(t, out.String(), "5650.00")
	assert.Contains(t, out.String(), "total: 10650.00")
}

func TestListOrders(t *testing.T) {
	o := new(MockOrders)
	o.On("ListOrders", mock.Anything).Return([]storage.OrderSummary{
		{ID: 2, AreaName: "Cairo", Lines: 1, Total: decimal.RequireFromString("950.35")},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, ListOrders(discardLogger(), o)(context.Background(), nil, &out))

	assert.Contains(t, out.String(), "950.35")
}

func TestExportReport(t *testing.T) {
	o := new(MockOrders)
	o.On("Export", mock.Anything, int64(5), "reports", "xlsx").Return("reports/Order_5.xlsx", nil)

	var out bytes.Buffer
	err := ExportReport(discardLogger(), o, config.Report{Dir: "reports", Format: "pdf"})(
		context.Background(), []string{"-order", "5", "-format", "xlsx"}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "reports/Order_5.xlsx")
	o.AssertExpectations(t)
}

func TestExportReport_MissingOrderFlag(t *testing.T) {
	o := new(MockOrders)

	err := ExportReport(discardLogger(), o, config.Report{Dir: "reports", Format: "pdf"})(
		context.Background(), nil, &bytes.Buffer{})

	assert.ErrorIs(t, err, errs.ErrValidation)
}
