// Package shaping prepares right-to-left text for a left-to-right drawing
// surface. Two strategies exist: contextual shaping with visual reordering
// when a Unicode font can draw the result, and Latin transliteration when it
// cannot. The choice is made once by Detect.
package shaping

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"worker-payroll/internal/config"
)

type Shaper interface {
	Name() string
	Shape(text string) (string, error)
}

// HasRTL reports whether text contains Arabic script, including the
// presentation form blocks.
func HasRTL(text string) bool {
	for _, r := range text {
		if isRTL(r) {
			return true
		}
	}
	return false
}

func isRTL(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF,
		r >= 0x0750 && r <= 0x077F,
		r >= 0xFB50 && r <= 0xFDFF,
		r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

// Pipeline runs the selected shaper and falls back to transliteration.
// It is read-only after construction and safe for concurrent use.
type Pipeline struct {
	log      *slog.Logger
	primary  Shaper
	fallback Shaper
	fontPath string
}

func NewPipeline(log *slog.Logger, primary Shaper, fontPath string) *Pipeline {
	return &Pipeline{
		log:      log,
		primary:  primary,
		fallback: NewTransliterator(),
		fontPath: fontPath,
	}
}

// FontPath is the Unicode TTF found at detection time, empty if none.
func (p *Pipeline) FontPath() string {
	return p.fontPath
}

func (p *Pipeline) Mode() string {
	if p.primary == nil {
		return p.fallback.Name()
	}
	return p.primary.Name()
}

// Process returns text ready for drawing. It never fails: on any problem it
// degrades to transliteration and then to the input itself.
func (p *Pipeline) Process(text string) (out string) {
	if !HasRTL(text) {
		return text
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("text shaping panicked",
				slog.String("text", text),
				slog.String("error", fmt.Sprint(r)),
			)
			out = text
		}
	}()

	if p.primary != nil {
		shaped, err := p.primary.Shape(text)
		if err == nil {
			return shaped
		}
		p.log.Warn("shaping failed, falling back to transliteration",
			slog.String("shaper", p.primary.Name()),
			slog.String("text", text),
			slog.String("error", err.Error()),
		)
	}

	shaped, err := p.fallback.Shape(text)
	if err != nil {
		p.log.Error("transliteration failed",
			slog.String("text", text),
			slog.String("error", err.Error()),
		)
		return text
	}

	return shaped
}

var candidateFonts = map[string][]string{
	"windows": {
		`C:\Windows\Fonts\arial.ttf`,
		`C:\Windows\Fonts\tahoma.ttf`,
		`C:\Windows\Fonts\calibri.ttf`,
		`C:\Windows\Fonts\segoeui.ttf`,
		`C:\Windows\Fonts\times.ttf`,
	},
	"linux": {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/noto/NotoSansArabic-Regular.ttf",
		"/usr/share/fonts/truetype/noto/NotoNastaliqUrdu-Regular.ttf",
	},
	"darwin": {
		"/System/Library/Fonts/Arial.ttf",
		"/System/Library/Fonts/Helvetica.ttf",
		"/Library/Fonts/Arial.ttf",
	},
}

// FindFont returns the configured font if it exists, otherwise the first
// platform font found.
func FindFont(configured string) string {
	if configured != "" && fileExists(configured) {
		return configured
	}
	for _, path := range candidateFonts[runtime.GOOS] {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Detect picks the shaping strategy for the process lifetime.
func Detect(log *slog.Logger, cfg config.Report) *Pipeline {
	const op = "shaping.Detect"

	log = log.With(slog.String("op", op))

	font := FindFont(cfg.FontPath)
	if cfg.FontPath != "" && font != cfg.FontPath {
		log.Warn("configured font not found", slog.String("font_path", cfg.FontPath))
	}

	var primary Shaper
	switch cfg.Shaping {
	case config.ShapingFallback:
	case config.ShapingFull:
		if font == "" {
			log.Warn("full shaping forced without a unicode font, glyphs may not render")
		}
		primary = NewBidiShaper()
	default:
		if font != "" {
			primary = NewBidiShaper()
		}
	}

	p := NewPipeline(log, primary, font)
	log.Info("text shaping selected", slog.String("mode", p.Mode()), slog.String("font", font))

	return p
}
