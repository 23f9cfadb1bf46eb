package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"worker-payroll/internal/errs"
	"worker-payroll/internal/service/builder"
	"worker-payroll/internal/storage"
)

type OrderStorage interface {
	GetArea(ctx context.Context, id int64) (storage.Area, error)
	CreateOrder(ctx context.Context, order storage.NewOrder) (int64, error)
}

type Persister struct {
	log     *slog.Logger
	storage OrderStorage
	now     func() time.Time
}

func New(log *slog.Logger, storage OrderStorage) *Persister {
	return &Persister{log: log, storage: storage, now: time.Now}
}

// Commit writes the order header and every line of the snapshot in one
// transaction and returns the new order id. Each call creates a new order.
func (p *Persister) Commit(ctx context.Context, areaID int64, address string, snapshot builder.Snapshot) (int64, error) {
	const op = "service.persist.Commit"

	log := p.log.With(slog.String("op", op), slog.Int64("area_id", areaID))

	if snapshot.Empty() {
		return 0, errs.ErrEmptySelection
	}
	if areaID <= 0 {
		return 0, errs.NewValidationError("area", "no area selected")
	}

	if _, err := p.storage.GetArea(ctx, areaID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, errs.NewValidationErrorWithCause("area", fmt.Sprintf("area id=%d does not exist", areaID), err)
		}
		return 0, errs.NewPersistenceError(op, err)
	}

	order := storage.NewOrder{
		AreaID:    areaID,
		Address:   strings.TrimSpace(address),
		CreatedAt: p.now(),
		Lines:     make([]storage.NewOrderLine, 0, len(snapshot.Lines)),
	}
	for _, l := range snapshot.Lines {
		order.Lines = append(order.Lines, storage.NewOrderLine{
			WorkerID:  l.Worker.ID,
			Salary:    l.Salary,
			Transport: l.Transport,
		})
	}

	id, err := p.storage.CreateOrder(ctx, order)
	if err != nil {
		log.Error("failed to save order", slog.String("error", err.Error()))
		if errors.Is(err, errs.ErrPersistence) {
			return 0, err
		}
		return 0, errs.NewPersistenceError(op, err)
	}

	log.Info("order saved",
		slog.Int64("order_id", id),
		slog.Int("lines", len(order.Lines)),
		slog.String("total", snapshot.GrandTotal().String()),
	)

	return id, nil
}

// CommitBuilder finalizes b, commits it and clears it. On failure b keeps
// its contents.
func (p *Persister) CommitBuilder(ctx context.Context, b *builder.Builder, address string) (int64, error) {
	snapshot, err := b.Snapshot()
	if err != nil {
		return 0, err
	}

	id, err := p.Commit(ctx, snapshot.Area.ID, address, snapshot)
	if err != nil {
		return 0, err
	}

	b.MarkPersisted()

	return id, nil
}
