package adaptation

import (
	"strings"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
)

// splitSentences breaks text after terminal punctuation followed by
// whitespace. Terminal punctuation stays attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') &&
			(i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n') {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

var clauseSeparators = []string{", and ", ", but ", ", so ", ", ", "; ", " and ", " but "}

func splitClauses(sentence string) []string {
	parts := []string{sentence}
	for _, sep := range clauseSeparators {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// terminal returns the sentence's trailing punctuation run, so an
// ellipsis survives restructuring intact.
func terminal(sentence string) string {
	trimmed := trimTerminal(sentence)
	if len(trimmed) == len(sentence) {
		return "."
	}
	return sentence[len(trimmed):]
}

func trimTerminal(sentence string) string {
	return strings.TrimRight(sentence, ".!?")
}

// restructure rewrites sentences to match the band's complexity tier.
// Simple tiers get one clause per sentence; compound tiers are capped
// at two clauses. Complex and sophisticated text passes through.
func restructure(text string, tier types.ComplexityTier) string {
	switch tier {
	case types.ComplexitySimple:
		return restructureSimple(text)
	case types.ComplexityCompound:
		return restructureCompound(text)
	default:
		return text
	}
}

func restructureSimple(text string) string {
	var out []string
	for _, sentence := range splitSentences(text) {
		end := terminal(sentence)
		clauses := splitClauses(trimTerminal(sentence))
		for i, clause := range clauses {
			if i == len(clauses)-1 {
				out = append(out, capitalize(clause)+end)
			} else {
				out = append(out, capitalize(clause)+".")
			}
		}
	}
	return strings.Join(out, " ")
}

func restructureCompound(text string) string {
	var out []string
	for _, sentence := range splitSentences(text) {
		body := trimTerminal(sentence)
		parts := strings.Split(body, ", ")
		if len(parts) < 3 {
			out = append(out, sentence)
			continue
		}
		end := terminal(sentence)
		out = append(out, capitalize(parts[0])+", "+parts[1]+".")
		out = append(out, capitalize(strings.Join(parts[2:], " "))+end)
	}
	return strings.Join(out, " ")
}
