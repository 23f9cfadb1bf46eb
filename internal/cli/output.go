package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04"

func renderTable(out io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)

	h := make([]any, len(header))
	for i, v := range header {
		h[i] = v
	}
	table.Header(h...)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("table row: %w", err)
		}
	}

	return table.Render()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func localTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}
