package report

import (
	"fmt"
	"log/slog"

	"worker-payroll/internal/storage"
)

// A4 portrait in millimetres, y grows downward.
const (
	PageWidth    = 210.0
	PageHeight   = 297.0
	TopMargin    = 20.0
	BottomMargin = 30.0
	BottomLimit  = PageHeight - BottomMargin

	titleSize  = 16.0
	headerSize = 11.0
	bodySize   = 10.0

	rowHeight   = 8.0
	titleGap    = 10.0
	infoGap     = 8.0
	tableGap    = 12.0
	headerGap   = 10.0
	totalGap    = 10.0
	tableLeft   = 20.0
	tableRight  = PageWidth - 20.0
	underlineDy = 2.0
)

// Column x offsets: worker, salary, transport, total.
var columns = [4]float64{20, 60, 110, 150}

const (
	labelTitle     = "تقرير الأوردر رقم"
	labelArea      = "المنطقة"
	labelAddress   = "العنوان"
	labelDate      = "التاريخ"
	labelWorker    = "الموظف"
	labelSalary    = "المرتب"
	labelTransport = "بدل الانتقالات"
	labelTotal     = "الإجمالي"
	labelGrand     = "إجمالي المبلغ"
	labelCurrency  = "جنيه مصري"

	dateLayout = "2006-01-02 15:04"
)

type ItemKind int

const (
	ItemText ItemKind = iota
	ItemLine
)

// Item is one positioned drawing instruction. For text, Y is the baseline.
type Item struct {
	Kind  ItemKind
	Field string
	X, Y  float64
	X2    float64
	Y2    float64
	Size  float64
	Bold  bool
	// Text is ready for drawing; Raw is the value before shaping.
	Text string
	Raw  string
}

type Page struct {
	Items []Item
}

type Document struct {
	Name  string
	Pages []Page
}

type Processor interface {
	Process(text string) string
}

// Renderer lays out an order on fixed A4 pages.
type Renderer struct {
	log    *slog.Logger
	shaper Processor
}

func NewRenderer(log *slog.Logger, shaper Processor) *Renderer {
	return &Renderer{log: log, shaper: shaper}
}

type layout struct {
	r    *Renderer
	doc  Document
	page *Page
	y    float64
}

// Layout places the order on as many pages as its lines need. A table row
// is never split across pages.
func (r *Renderer) Layout(order storage.Order, lines []storage.OrderLine) Document {
	l := &layout{
		r:   r,
		doc: Document{Name: fmt.Sprintf("Order_%d", order.ID)},
	}

	l.newPage()
	l.titleBlock(order)
	l.tableHeader()

	for i, line := range lines {
		if l.y+rowHeight > BottomLimit {
			l.newPage()
			l.tableHeader()
		}
		l.y += rowHeight
		l.row(i, line)
	}

	if l.y+totalGap > BottomLimit {
		l.newPage()
	}
	l.y += totalGap

	grand := fmt.Sprintf("%s: %s %s", labelGrand, storage.GrandTotal(lines).StringFixed(2), labelCurrency)
	l.text("grand_total", columns[0], l.y, headerSize, true, grand, true)

	r.log.Debug("order laid out",
		slog.Int64("order_id", order.ID),
		slog.Int("lines", len(lines)),
		slog.Int("pages", len(l.doc.Pages)),
	)

	return l.doc
}

func (l *layout) newPage() {
	l.doc.Pages = append(l.doc.Pages, Page{})
	l.page = &l.doc.Pages[len(l.doc.Pages)-1]
	l.y = TopMargin
}

func (l *layout) titleBlock(order storage.Order) {
	l.text("title", columns[0], l.y, titleSize, true, fmt.Sprintf("%s %d", labelTitle, order.ID), true)

	l.y += titleGap
	l.text("area", columns[0], l.y, bodySize, false, fmt.Sprintf("%s: %s", labelArea, order.AreaName), true)

	if order.Address != "" {
		l.y += infoGap
		l.text("address", columns[0], l.y, bodySize, false, fmt.Sprintf("%s: %s", labelAddress, order.Address), true)
	}

	l.y += infoGap
	l.text("date", columns[0], l.y, bodySize, false, fmt.Sprintf("%s: %s", labelDate, order.CreatedAt.Format(dateLayout)), true)

	l.y += tableGap
}

func (l *layout) tableHeader() {
	for i, label := range []string{labelWorker, labelSalary, labelTransport, labelTotal} {
		l.text("header", columns[i], l.y, headerSize, true, label, true)
	}
	l.page.Items = append(l.page.Items, Item{
		Kind: ItemLine,
		X:    tableLeft,
		Y:    l.y + underlineDy,
		X2:   tableRight,
		Y2:   l.y + underlineDy,
	})
	l.y += headerGap - rowHeight
}

func (l *layout) row(i int, line storage.OrderLine) {
	field := fmt.Sprintf("line[%d]", i)
	l.text(field+".worker", columns[0], l.y, bodySize, false, line.WorkerName, true)
	l.text(field+".salary", columns[1], l.y, bodySize, false, line.Salary.StringFixed(2), false)
	l.text(field+".transport", columns[2], l.y, bodySize, false, line.Transport.StringFixed(2), false)
	l.text(field+".total", columns[3], l.y, bodySize, false, line.Total().StringFixed(2), false)
}

func (l *layout) text(field string, x, y, size float64, bold bool, raw string, shape bool) {
	drawn := raw
	if shape && l.r.shaper != nil {
		drawn = l.r.shaper.Process(raw)
	}

	l.page.Items = append(l.page.Items, Item{
		Kind:  ItemText,
		Field: field,
		X:     x,
		Y:     y,
		Size:  size,
		Bold:  bold,
		Text:  drawn,
		Raw:   raw,
	})
}
