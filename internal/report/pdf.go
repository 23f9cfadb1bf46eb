package report

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"worker-payroll/internal/errs"
)

const (
	unicodeFamily = "payroll"
	coreFamily    = "Helvetica"
	placeholder   = "Text Error"
)

// surface is the part of *gofpdf.Fpdf used for drawing.
type surface interface {
	SetFont(familyStr, styleStr string, size float64)
	Text(x, y float64, txtStr string)
	Line(x1, y1, x2, y2 float64)
	Err() bool
	Error() error
	ClearError()
}

// PDFWriter draws a laid out Document with absolute positioning.
type PDFWriter struct {
	log      *slog.Logger
	fontPath string
}

func NewPDFWriter(log *slog.Logger, fontPath string) *PDFWriter {
	return &PDFWriter{log: log, fontPath: fontPath}
}

func (w *PDFWriter) Write(out io.Writer, doc Document) error {
	const op = "report.PDFWriter.Write"

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, BottomMargin)
	pdf.SetTitle(doc.Name, true)
	pdf.SetCreator("worker-payroll", true)

	d := &drawer{log: w.log.With(slog.String("op", op), slog.String("document", doc.Name)), s: pdf}
	d.setupFonts(pdf, w.fontPath)

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, item := range page.Items {
			switch item.Kind {
			case ItemLine:
				pdf.SetLineWidth(0.3)
				pdf.Line(item.X, item.Y, item.X2, item.Y2)
			case ItemText:
				d.drawText(item)
			}
		}
	}

	if pdf.Err() {
		return fmt.Errorf("%s: %w", op, pdf.Error())
	}

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type drawer struct {
	log     *slog.Logger
	s       surface
	family  string
	unicode bool
	encode  func(string) string
}

// setupFonts registers the Unicode TTF when one was found. Without it the
// core Helvetica font is used and text is translated to cp1252.
func (d *drawer) setupFonts(pdf *gofpdf.Fpdf, fontPath string) {
	d.family = coreFamily
	d.encode = pdf.UnicodeTranslatorFromDescriptor("")

	if fontPath == "" {
		return
	}

	if err := addUTF8Font(pdf, fontPath); err != nil {
		d.log.Warn("failed to load unicode font, using core font",
			slog.String("font_path", fontPath),
			slog.String("error", err.Error()),
		)
		return
	}

	d.family = unicodeFamily
	d.unicode = true
	d.encode = func(s string) string { return s }
}

func addUTF8Font(pdf *gofpdf.Fpdf, fontPath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse font: %v", r)
		}
		if err != nil {
			pdf.ClearError()
		}
	}()

	pdf.AddUTF8Font(unicodeFamily, "", fontPath)
	pdf.AddUTF8Font(unicodeFamily, "B", fontPath)
	if pdf.Err() {
		return pdf.Error()
	}

	return nil
}

// drawText tries the shaped text, then the raw text, then a placeholder in
// the core font. Each fallback is logged as a render failure.
func (d *drawer) drawText(item Item) {
	style := ""
	if item.Bold {
		style = "B"
	}

	err := d.tryDraw(d.family, style, item.Size, item.X, item.Y, item.Text)
	if err == nil {
		return
	}
	d.logFailure(item, item.Text, err)

	if item.Raw != item.Text {
		err = d.tryDraw(d.family, style, item.Size, item.X, item.Y, item.Raw)
		if err == nil {
			return
		}
		d.logFailure(item, item.Raw, err)
	}

	d.s.SetFont(coreFamily, "", 12)
	d.s.Text(item.X, item.Y, placeholder)
	if d.s.Err() {
		d.logFailure(item, placeholder, d.s.Error())
		d.s.ClearError()
	}
}

func (d *drawer) tryDraw(family, style string, size, x, y float64, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw panicked: %v", r)
		}
	}()

	if !d.unicode && !encodable(text) {
		return fmt.Errorf("text not representable in %s", coreFamily)
	}

	d.s.SetFont(family, style, size)
	d.s.Text(x, y, d.encode(text))

	if d.s.Err() {
		err = d.s.Error()
		d.s.ClearError()
		return err
	}

	return nil
}

func (d *drawer) logFailure(item Item, text string, cause error) {
	failure := &errs.RenderFailure{Field: item.Field, Text: text, Cause: cause}
	d.log.Warn("text fallback used",
		slog.String("field", failure.Field),
		slog.String("text", failure.Text),
		slog.String("error", failure.Error()),
	)
}

// encodable reports whether every rune of s exists in cp1252, the encoding
// of the core PDF fonts.
func encodable(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}
