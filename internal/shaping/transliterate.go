package shaping

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var phrases = map[string]string{
	"أحمد":              "Ahmed",
	"محمد":              "Mohamed",
	"خالد":              "Khaled",
	"محمود":             "Mahmoud",
	"سارة":              "Sara",
	"الغردقة":           "Hurghada",
	"القاهرة":           "Cairo",
	"الإسكندرية":        "Alexandria",
	"المرتب":            "Salary",
	"بدل الانتقالات":    "Transport",
	"الإجمالي":          "Total",
	"الموظف":            "Employee",
	"المنطقة":           "Area",
	"العنوان":           "Address",
	"التاريخ":           "Date",
	"تقرير الأوردر رقم": "Order Report #",
	"إجمالي المبلغ":     "Total Amount",
	"جنيه مصري":         "EGP",
}

var letters = map[rune]string{
	'أ': "A", 'إ': "I", 'آ': "A", 'ا': "A", 'ب': "B", 'ت': "T", 'ث': "Th",
	'ج': "J", 'ح': "H", 'خ': "Kh", 'د': "D", 'ذ': "Th", 'ر': "R", 'ز': "Z",
	'س': "S", 'ش': "Sh", 'ص': "S", 'ض': "D", 'ط': "T", 'ظ': "Z", 'ع': "A",
	'غ': "Gh", 'ف': "F", 'ق': "Q", 'ك': "K", 'ل': "L", 'م': "M", 'ن': "N",
	'ه': "H", 'و': "W", 'ي': "Y", 'ة': "h", 'ى': "a", 'ئ': "Y", 'ء': "A",
	'ؤ': "W",
	'٠': "0", '١': "1", '٢': "2", '٣': "3", '٤': "4",
	'٥': "5", '٦': "6", '٧': "7", '٨': "8", '٩': "9",
	'،': ",", '؛': ";", '؟': "?",
}

// Transliterator maps Arabic text to Latin letters. Known phrases are
// replaced as whole words, longest first; remaining letters are mapped one
// by one and anything unmapped passes through.
type Transliterator struct {
	keys []string
}

func NewTransliterator() *Transliterator {
	keys := make([]string, 0, len(phrases))
	for k := range phrases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return &Transliterator{keys: keys}
}

func (t *Transliterator) Name() string {
	return "transliterate"
}

func (t *Transliterator) Shape(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	prev := rune(-1)
	for i := 0; i < len(text); {
		if !isWordRune(prev) {
			if key, ok := t.phraseAt(text, i); ok {
				b.WriteString(phrases[key])
				i += len(key)
				prev, _ = utf8.DecodeLastRuneInString(key)
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if latin, ok := letters[r]; ok {
			b.WriteString(latin)
		} else {
			b.WriteRune(r)
		}
		prev = r
		i += size
	}

	return b.String(), nil
}

// phraseAt returns the longest phrase starting at offset i that ends on a
// word boundary.
func (t *Transliterator) phraseAt(text string, i int) (string, bool) {
	rest := text[i:]
	for _, key := range t.keys {
		if !strings.HasPrefix(rest, key) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(rest[len(key):])
		if len(rest) == len(key) || !isWordRune(next) {
			return key, true
		}
	}
	return "", false
}

func isWordRune(r rune) bool {
	if r < 0 {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
