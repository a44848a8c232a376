package safety

import "strings"

// leet maps the common digit/symbol substitutions children use to slip
// terms past a filter. Applied during scanning only; stored text is
// never rewritten.
var leet = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"8", "b",
	"@", "a",
	"$", "s",
	"!", "i",
)

// normalizeForScan lowercases, folds leetspeak, strips punctuation to
// spaces, and collapses whitespace. Apostrophes survive so contractions
// like "don't" keep matching phrase patterns.
func normalizeForScan(text string) string {
	text = strings.ToLower(text)
	text = leet.Replace(text)
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// symbolDensity reports the share of runes that are neither
// alphanumeric nor whitespace. High density suggests encoding tricks.
func symbolDensity(text string) float64 {
	if text == "" {
		return 0
	}
	total, symbols := 0, 0
	for _, r := range text {
		total++
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '\t', r == '\n':
		default:
			symbols++
		}
	}
	return float64(symbols) / float64(total)
}
