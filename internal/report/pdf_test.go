package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	family string
	text   string
}

// fakeSurface fails any Text call whose string is listed in fail.
type fakeSurface struct {
	family string
	fail   map[string]bool
	err    error
	drawn  []drawCall
}

func (f *fakeSurface) SetFont(family, _ string, _ float64) { f.family = family }

func (f *fakeSurface) Text(_, _ float64, text string) {
	if f.fail[text] {
		f.err = errors.New("glyph missing")
		return
	}
	f.drawn = append(f.drawn, drawCall{family: f.family, text: text})
}

func (f *fakeSurface) Line(_, _, _, _ float64) {}

func (f *fakeSurface) Err() bool { return f.err != nil }

func (f *fakeSurface) Error() error { return f.err }

func (f *fakeSurface) ClearError() { f.err = nil }

func newTestDrawer(s surface) *drawer {
	return &drawer{
		log:     discardLogger(),
		s:       s,
		family:  unicodeFamily,
		unicode: true,
		encode:  func(s string) string { return s },
	}
}

func TestDrawer_ShapedText(t *testing.T) {
	s := &fakeSurface{}
	newTestDrawer(s).drawText(Item{Field: "area", Text: "shaped", Raw: "raw"})

	require.Len(t, s.drawn, 1)
	assert.Equal(t, "shaped", s.drawn[0].text)
}

func TestDrawer_FallsBackToRaw(t *testing.T) {
	s := &fakeSurface{fail: map[string]bool{"shaped": true}}
	newTestDrawer(s).drawText(Item{Field: "area", Text: "shaped", Raw: "raw"})

	require.Len(t, s.drawn, 1)
	assert.Equal(t, "raw", s.drawn[0].text)
	assert.False(t, s.Err(), "error state is cleared")
}

func TestDrawer_FallsBackToPlaceholder(t *testing.T) {
	s := &fakeSurface{fail: map[string]bool{"shaped": true, "raw": true}}
	newTestDrawer(s).drawText(Item{Field: "area", Text: "shaped", Raw: "raw"})

	require.Len(t, s.drawn, 1)
	assert.Equal(t, drawCall{family: coreFamily, text: placeholder}, s.drawn[0])
}

func TestDrawer_CoreFontRejectsUnencodableText(t *testing.T) {
	s := &fakeSurface{}
	d := newTestDrawer(s)
	d.family = coreFamily
	d.unicode = false

	d.drawText(Item{Field: "worker", Text: "پ", Raw: "پ"})
	d.drawText(Item{Field: "worker", Text: "Ahmed", Raw: "أحمد"})

	require.Len(t, s.drawn, 2)
	assert.Equal(t, placeholder, s.drawn[0].text)
	assert.Equal(t, "Ahmed", s.drawn[1].text)
}

func TestEncodable(t *testing.T) {
	assert.True(t, encodable("Order Report # 5 – 10650.00 €"))
	assert.False(t, encodable("القاهرة"))
}

func TestPDFWriter_Write(t *testing.T) {
	doc := NewRenderer(discardLogger(), markShaper{}).Layout(sampleOrder(), sampleLines(70))

	var buf bytes.Buffer
	require.NoError(t, NewPDFWriter(discardLogger(), "").Write(&buf, doc))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	pages := bytes.Count(buf.Bytes(), []byte("/Type /Page")) - bytes.Count(buf.Bytes(), []byte("/Type /Pages"))
	assert.Equal(t, len(doc.Pages), pages)
}

func TestPDFWriter_MissingFontFallsBackToCoreFont(t *testing.T) {
	doc := NewRenderer(discardLogger(), nil).Layout(sampleOrder(), sampleLines(2))

	var buf bytes.Buffer
	err := NewPDFWriter(discardLogger(), t.TempDir()+"/missing.ttf").Write(&buf, doc)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
