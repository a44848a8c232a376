package adaptation

import (
	"regexp"
	"strconv"
	"unicode"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
)

// vocabEntry maps one complex term to its tiered alternatives. None of
// the alternatives may themselves appear as a term, otherwise a second
// adaptation pass would rewrite its own output.
type vocabEntry struct {
	term         string
	alternatives []string
	re           *regexp.Regexp
}

func entry(term string, alternatives ...string) vocabEntry {
	return vocabEntry{
		term:         term,
		alternatives: alternatives,
		re:           regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
	}
}

var vocabTables = map[types.VocabularyTier][]vocabEntry{
	types.VocabularyBasic: {
		entry("scientific method", "trying things out"),
		entry("hypothesis", "guess"),
		entry("experiment", "try-out"),
		entry("molecule", "tiny piece"),
		entry("ecosystem", "home for living things"),
		entry("algorithm", "step-by-step directions"),
		entry("variable", "thing that changes"),
		entry("photosynthesis", "how plants make food from sunlight"),
		entry("gravity", "the pull that makes things fall"),
		entry("circuit", "path for electricity"),
		entry("approximately", "about"),
		entry("demonstrate", "show"),
		entry("investigate", "look at"),
		entry("utilize", "use"),
		entry("therefore", "so"),
		entry("however", "still"),
	},
	types.VocabularyIntermediate: {
		entry("scientific method", "research process"),
		entry("hypothesis", "educated guess"),
		entry("molecule", "group of atoms"),
		entry("ecosystem", "living community"),
		entry("algorithm", "problem-solving steps"),
		entry("photosynthesis", "the way plants turn sunlight into food"),
		entry("utilize", "use"),
		entry("subsequently", "then"),
	},
	types.VocabularyAdvanced: {
		entry("scientific method", "empirical methodology"),
		entry("hypothesis", "testable prediction"),
		entry("algorithm", "computational procedure"),
	},
}

// substituteVocabulary rewrites complex terms for the tier, preserving
// the leading capitalization of each original occurrence. pick selects
// among alternatives and must be deterministic for reproducible output.
func substituteVocabulary(text string, tier types.VocabularyTier, pick func(n int) int) string {
	for _, e := range vocabTables[tier] {
		replacement := e.alternatives[pick(len(e.alternatives))]
		text = e.re.ReplaceAllStringFunc(text, func(match string) string {
			if startsUpper(match) {
				return capitalize(replacement)
			}
			return replacement
		})
	}
	return text
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Redaction placeholders are single words on purpose: the scrub runs
// after length enforcement, so substitutions must never grow the word
// count past an already-enforced limit.
const redactedToken = "[removed]"

var (
	urlPattern   = regexp.MustCompile(`\bhttps?://\S+|\bwww\.\S+`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	bigNumber    = regexp.MustCompile(`\b\d+\b`)
)

// scrubResiduals removes contact-surface patterns that should already
// have been caught upstream, and vagues out large numbers for the
// youngest readers. Defense in depth, not the primary gate.
func scrubResiduals(text string, vagueGTE int) string {
	text = urlPattern.ReplaceAllString(text, redactedToken)
	text = emailPattern.ReplaceAllString(text, redactedToken)
	text = phonePattern.ReplaceAllString(text, redactedToken)
	if vagueGTE > 0 {
		text = bigNumber.ReplaceAllStringFunc(text, func(num string) string {
			if v, err := strconv.Atoi(num); err == nil && v >= vagueGTE {
				return "many"
			}
			return num
		})
	}
	return text
}
