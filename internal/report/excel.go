package report

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"worker-payroll/internal/storage"
)

// ExcelWriter exports an order as a spreadsheet. Cells hold raw Unicode
// text; spreadsheet applications shape Arabic on their own.
type ExcelWriter struct {
	log *slog.Logger
}

func NewExcelWriter(log *slog.Logger) *ExcelWriter {
	return &ExcelWriter{log: log}
}

func (w *ExcelWriter) Write(out io.Writer, order storage.Order, lines []storage.OrderLine) error {
	const op = "report.ExcelWriter.Write"

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.log.Warn("failed to close workbook", slog.String("op", op), slog.String("error", err.Error()))
		}
	}()

	sheet := fmt.Sprintf("Order %d", order.ID)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: boolPtr(true)}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// info block above the table
	info := [][2]string{
		{labelTitle, fmt.Sprint(order.ID)},
		{labelArea, order.AreaName},
		{labelAddress, order.Address},
		{labelDate, order.CreatedAt.Format(dateLayout)},
	}
	for i, kv := range info {
		if err := f.SetSheetRow(sheet, cellName(1, i+1), &[]any{kv[0], kv[1]}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	headerRow := len(info) + 2
	headers := []any{labelWorker, labelSalary, labelTransport, labelTotal}
	if err := f.SetSheetRow(sheet, cellName(1, headerRow), &headers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetCellStyle(sheet, cellName(1, headerRow), cellName(len(headers), headerRow), headerStyle); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	row := headerRow
	for _, l := range lines {
		row++
		values := []any{
			l.WorkerName,
			moneyCell(l.Salary),
			moneyCell(l.Transport),
			moneyCell(l.Total()),
		}
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	row += 2
	total := []any{labelGrand, moneyCell(storage.GrandTotal(lines)), labelCurrency}
	if err := f.SetSheetRow(sheet, cellName(1, row), &total); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), headerStyle); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetCellStyle(sheet, cellName(2, headerRow+1), cellName(4, row), moneyStyle); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cellName(1, headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetColWidth(sheet, "B", "D", 16); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// moneyCell is the number printed in the PDF, kept numeric so the sheet can
// still sum it.
func moneyCell(d decimal.Decimal) float64 {
	f, _ := strconv.ParseFloat(d.StringFixed(2), 64)
	return f
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func boolPtr(b bool) *bool {
	return &b
}
