// Package report lays out a persisted order on A4 pages and exports it as
// PDF or as a spreadsheet.
package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"worker-payroll/internal/errs"
)

const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

type Service struct {
	log      *slog.Logger
	reader   OrderReader
	renderer *Renderer
	pdf      *PDFWriter
	excel    *ExcelWriter
}

type Shaper interface {
	Processor
	FontPath() string
}

func NewService(log *slog.Logger, reader OrderReader, shaper Shaper) *Service {
	return &Service{
		log:      log,
		reader:   reader,
		renderer: NewRenderer(log, shaper),
		pdf:      NewPDFWriter(log, shaper.FontPath()),
		excel:    NewExcelWriter(log),
	}
}

// Render loads the order read-only and lays it out.
func (s *Service) Render(ctx context.Context, orderID int64) (Document, error) {
	order, lines, err := load(ctx, s.reader, orderID)
	if err != nil {
		return Document{}, err
	}

	return s.renderer.Layout(order, lines), nil
}

// Export writes Order_<id>.<format> into dir and returns its path.
func (s *Service) Export(ctx context.Context, orderID int64, dir, format string) (string, error) {
	const op = "report.Export"

	log := s.log.With(slog.String("op", op), slog.Int64("order_id", orderID))

	if format != FormatPDF && format != FormatXLSX {
		return "", errs.NewValidationError("format", fmt.Sprintf("unsupported report format %q", format))
	}

	order, lines, err := load(ctx, s.reader, orderID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: create report dir: %w", op, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("Order_%d.%s", orderID, format))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	w := bufio.NewWriter(f)

	switch format {
	case FormatPDF:
		err = s.pdf.Write(w, s.renderer.Layout(order, lines))
	case FormatXLSX:
		err = s.excel.Write(w, order, lines)
	}
	if err == nil {
		err = w.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn("failed to remove partial report", slog.String("path", path), slog.String("error", rmErr.Error()))
		}
		return "", fmt.Errorf("%s: %w", op, errors.Join(errs.ErrRender, err))
	}

	log.Info("report exported", slog.String("path", path), slog.Int("lines", len(lines)))

	return path, nil
}
