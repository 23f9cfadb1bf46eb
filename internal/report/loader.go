package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"worker-payroll/internal/storage"
)

type OrderReader interface {
	GetOrder(ctx context.Context, id int64) (storage.Order, error)
	GetOrderLines(ctx context.Context, orderID int64) ([]storage.OrderLine, error)
}

// load reads the order header, then its lines. The group is limited to one
// read at a time so a command never holds more than one connection; the lines
// are skipped once the header read has failed.
func load(ctx context.Context, reader OrderReader, orderID int64) (storage.Order, []storage.OrderLine, error) {
	const op = "report.load"

	var (
		order storage.Order
		lines []storage.OrderLine
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(1)

	g.Go(func() error {
		var err error
		order, err = reader.GetOrder(gctx, orderID)
		return err
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		lines, err = reader.GetOrderLines(gctx, orderID)
		return err
	})

	if err := g.Wait(); err != nil {
		return storage.Order{}, nil, fmt.Errorf("%s: order id=%d: %w", op, orderID, err)
	}

	return order, lines, nil
}
