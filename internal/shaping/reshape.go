package shaping

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/bidi"
)

// forms holds isolated, final, initial and medial presentation forms.
// Letters without initial and medial forms only join to the preceding letter.
var forms = map[rune][4]rune{
	'ء': {0xFE80, 0, 0, 0},
	'آ': {0xFE81, 0xFE82, 0, 0},
	'أ': {0xFE83, 0xFE84, 0, 0},
	'ؤ': {0xFE85, 0xFE86, 0, 0},
	'إ': {0xFE87, 0xFE88, 0, 0},
	'ئ': {0xFE89, 0xFE8A, 0xFE8B, 0xFE8C},
	'ا': {0xFE8D, 0xFE8E, 0, 0},
	'ب': {0xFE8F, 0xFE90, 0xFE91, 0xFE92},
	'ة': {0xFE93, 0xFE94, 0, 0},
	'ت': {0xFE95, 0xFE96, 0xFE97, 0xFE98},
	'ث': {0xFE99, 0xFE9A, 0xFE9B, 0xFE9C},
	'ج': {0xFE9D, 0xFE9E, 0xFE9F, 0xFEA0},
	'ح': {0xFEA1, 0xFEA2, 0xFEA3, 0xFEA4},
	'خ': {0xFEA5, 0xFEA6, 0xFEA7, 0xFEA8},
	'د': {0xFEA9, 0xFEAA, 0, 0},
	'ذ': {0xFEAB, 0xFEAC, 0, 0},
	'ر': {0xFEAD, 0xFEAE, 0, 0},
	'ز': {0xFEAF, 0xFEB0, 0, 0},
	'س': {0xFEB1, 0xFEB2, 0xFEB3, 0xFEB4},
	'ش': {0xFEB5, 0xFEB6, 0xFEB7, 0xFEB8},
	'ص': {0xFEB9, 0xFEBA, 0xFEBB, 0xFEBC},
	'ض': {0xFEBD, 0xFEBE, 0xFEBF, 0xFEC0},
	'ط': {0xFEC1, 0xFEC2, 0xFEC3, 0xFEC4},
	'ظ': {0xFEC5, 0xFEC6, 0xFEC7, 0xFEC8},
	'ع': {0xFEC9, 0xFECA, 0xFECB, 0xFECC},
	'غ': {0xFECD, 0xFECE, 0xFECF, 0xFED0},
	'ف': {0xFED1, 0xFED2, 0xFED3, 0xFED4},
	'ق': {0xFED5, 0xFED6, 0xFED7, 0xFED8},
	'ك': {0xFED9, 0xFEDA, 0xFEDB, 0xFEDC},
	'ل': {0xFEDD, 0xFEDE, 0xFEDF, 0xFEE0},
	'م': {0xFEE1, 0xFEE2, 0xFEE3, 0xFEE4},
	'ن': {0xFEE5, 0xFEE6, 0xFEE7, 0xFEE8},
	'ه': {0xFEE9, 0xFEEA, 0xFEEB, 0xFEEC},
	'و': {0xFEED, 0xFEEE, 0, 0},
	'ى': {0xFEEF, 0xFEF0, 0, 0},
	'ي': {0xFEF1, 0xFEF2, 0xFEF3, 0xFEF4},
}

// lam followed by one of these alefs becomes a single ligature glyph.
var lamAlef = map[rune][2]rune{
	'آ': {0xFEF5, 0xFEF6},
	'أ': {0xFEF7, 0xFEF8},
	'إ': {0xFEF9, 0xFEFA},
	'ا': {0xFEFB, 0xFEFC},
}

const (
	lam     = 'ل'
	tatweel = 'ـ'
)

const (
	formIsolated = iota
	formFinal
	formInitial
	formMedial
)

var mirrored = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
	'«': '»', '»': '«',
}

var errMultiParagraph = errors.New("text spans more than one paragraph")

// BidiShaper converts Arabic letters to their contextual presentation forms
// and reorders the result for left-to-right drawing.
type BidiShaper struct{}

func NewBidiShaper() *BidiShaper {
	return &BidiShaper{}
}

func (s *BidiShaper) Name() string {
	return "bidi"
}

func (s *BidiShaper) Shape(text string) (string, error) {
	const op = "shaping.BidiShaper.Shape"

	visual, err := reorder(reshape([]rune(text)))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return visual, nil
}

func reshape(in []rune) []rune {
	out := make([]rune, 0, len(in))

	for i := 0; i < len(in); i++ {
		r := in[i]
		f, ok := forms[r]
		if !ok {
			out = append(out, r)
			continue
		}

		joinPrev := joinsForward(prevLetter(in, i))

		if r == lam {
			if j := nextLetterIndex(in, i); j >= 0 {
				if lig, ok := lamAlef[in[j]]; ok {
					if joinPrev {
						out = append(out, lig[formFinal])
					} else {
						out = append(out, lig[formIsolated])
					}
					out = append(out, in[i+1:j]...)
					i = j
					continue
				}
			}
		}

		joinNext := joins(nextLetter(in, i))
		dual := f[formInitial] != 0

		switch {
		case joinPrev && joinNext && dual:
			out = append(out, f[formMedial])
		case joinPrev && f[formFinal] != 0:
			out = append(out, f[formFinal])
		case joinNext && dual:
			out = append(out, f[formInitial])
		default:
			out = append(out, f[formIsolated])
		}
	}

	return out
}

func isTransparent(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
}

func prevLetter(in []rune, i int) rune {
	for j := i - 1; j >= 0; j-- {
		if !isTransparent(in[j]) {
			return in[j]
		}
	}
	return 0
}

func nextLetterIndex(in []rune, i int) int {
	for j := i + 1; j < len(in); j++ {
		if !isTransparent(in[j]) {
			return j
		}
	}
	return -1
}

func nextLetter(in []rune, i int) rune {
	if j := nextLetterIndex(in, i); j >= 0 {
		return in[j]
	}
	return 0
}

// joins reports whether r connects to the letter before it.
func joins(r rune) bool {
	if r == tatweel {
		return true
	}
	f, ok := forms[r]
	return ok && f[formFinal] != 0
}

// joinsForward reports whether r connects to the letter after it.
func joinsForward(r rune) bool {
	if r == tatweel {
		return true
	}
	f, ok := forms[r]
	return ok && f[formInitial] != 0
}

// reorder returns the runes in visual order. Directional runs come from the
// bidi package; embedding levels are rebuilt from the run directions and the
// paragraph direction, then reversed as in rule L2.
func reorder(text []rune) (string, error) {
	if len(text) == 0 {
		return "", nil
	}

	s := string(text)
	rtl := baseIsRTL(text)

	dir := bidi.LeftToRight
	if rtl {
		dir = bidi.RightToLeft
	}

	var p bidi.Paragraph
	n, err := p.SetString(s, bidi.DefaultDirection(dir))
	if err != nil {
		return "", err
	}
	if n < len(s) {
		return "", errMultiParagraph
	}

	order, err := p.Order()
	if err != nil {
		return "", err
	}

	levels := make([]int, 0, len(text))
	runes := make([]rune, 0, len(text))
	prevRTL := false

	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		rs := []rune(run.String())
		runRTL := run.Direction() == bidi.RightToLeft

		switch {
		case runRTL:
			levels = appendLevel(levels, len(rs), 1)
		case rtl:
			levels = appendLevel(levels, len(rs), 2)
		case prevRTL:
			// numbers right after right-to-left text stay inside it
			k := leadingNumberLen(rs)
			levels = appendLevel(levels, k, 2)
			levels = appendLevel(levels, len(rs)-k, 0)
		default:
			levels = appendLevel(levels, len(rs), 0)
		}

		runes = append(runes, rs...)
		prevRTL = runRTL
	}

	if len(runes) != len(levels) {
		return "", fmt.Errorf("bidi runs cover %d of %d runes", len(levels), len(runes))
	}

	reverseLevels(runes, levels)

	for i, r := range runes {
		if levels[i]%2 == 1 {
			if m, ok := mirrored[r]; ok {
				runes[i] = m
			}
		}
	}

	return string(runes), nil
}

// baseIsRTL applies rule P2: the first strong character sets the direction.
func baseIsRTL(text []rune) bool {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return false
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}

func leadingNumberLen(rs []rune) int {
	last := 0
	for i, r := range rs {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return last
		case bidi.EN, bidi.AN:
			last = i + 1
		}
	}
	return last
}

func appendLevel(levels []int, n, level int) []int {
	for i := 0; i < n; i++ {
		levels = append(levels, level)
	}
	return levels
}

// reverseLevels reverses, from the highest level down to 1, every maximal
// sequence of runes at that level or higher. levels is permuted with runes.
func reverseLevels(runes []rune, levels []int) {
	highest := 0
	for _, l := range levels {
		if l > highest {
			highest = l
		}
	}

	for lvl := highest; lvl >= 1; lvl-- {
		for i := 0; i < len(runes); {
			if levels[i] < lvl {
				i++
				continue
			}
			j := i
			for j < len(runes) && levels[j] >= lvl {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				runes[a], runes[b] = runes[b], runes[a]
				levels[a], levels[b] = levels[b], levels[a]
			}
			i = j
		}
	}
}
