package safety

import (
	"regexp"
	"strings"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
)

// A patternFamily groups compiled patterns under one category with a
// base severity. Matching is always word-boundary aware; a term like
// "ass" must never fire inside "class".
type patternFamily struct {
	category types.SafetyCategory
	severity types.Severity
	patterns []*regexp.Regexp
}

// termSet compiles a word list into a single alternation regex with
// word boundaries on both sides.
func termSet(terms ...string) *regexp.Regexp {
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		escaped = append(escaped, regexp.QuoteMeta(t))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(escaped, "|") + `)\b`)
}

// Always-on families, scanned for every band.
var baseFamilies = []patternFamily{
	{
		category: types.CategoryViolence,
		severity: types.SeveritySevere,
		patterns: []*regexp.Regexp{
			termSet("kill", "murder", "attack", "weapon", "gun", "knife", "stab", "shoot"),
			termSet("blood", "gore", "torture"),
		},
	},
	{
		category: types.CategoryInappropriate,
		severity: types.SeveritySevere,
		patterns: []*regexp.Regexp{
			termSet("sex", "nude", "naked", "porn"),
			termSet("drug", "drugs", "alcohol", "vape", "marijuana", "cocaine"),
		},
	},
	{
		category: types.CategoryPersonalInfo,
		severity: types.SeverityModerate,
		patterns: []*regexp.Regexp{
			termSet("address", "password", "credit card", "social security"),
			termSet("home alone", "parents gone", "nobody home"),
		},
	},
	{
		category: types.CategoryDangerous,
		severity: types.SeveritySevere,
		patterns: []*regexp.Regexp{
			termSet("bomb", "explosive", "poison", "acid"),
		},
	},
	{
		category: types.CategoryBullying,
		severity: types.SeverityModerate,
		patterns: []*regexp.Regexp{
			termSet("loser", "ugly", "stupid", "idiot"),
			termSet("nobody likes you", "everyone hates"),
		},
	},
	{
		category: types.CategoryProfanity,
		severity: types.SeverityLow,
		patterns: []*regexp.Regexp{
			termSet("damn", "hell", "crap", "ass"),
		},
	},
	{
		category: types.CategoryMedical,
		severity: types.SeverityLow,
		patterns: []*regexp.Regexp{
			termSet("diagnose", "prescription", "dosage", "overdose"),
		},
	},
	{
		category: types.CategoryCommercial,
		severity: types.SeverityLow,
		patterns: []*regexp.Regexp{
			termSet("buy now", "free money", "gift card", "subscribe"),
		},
	},
}

// Tolerance-gated families; scanned only when the band profile does not
// tolerate the theme.
var scaryFamily = patternFamily{
	category: types.CategoryScary,
	severity: types.SeverityModerate,
	patterns: []*regexp.Regexp{
		termSet("ghost", "monster", "demon", "zombie", "vampire", "horror"),
		termSet("death", "dead", "die"),
	},
}

var violentThemeFamily = patternFamily{
	category: types.CategoryViolence,
	severity: types.SeverityModerate,
	patterns: []*regexp.Regexp{
		termSet("war", "battle", "fight", "combat", "destroy"),
	},
}

var romanceFamily = patternFamily{
	category: types.CategoryInappropriate,
	severity: types.SeverityModerate,
	patterns: []*regexp.Regexp{
		termSet("kiss", "dating", "boyfriend", "girlfriend", "crush"),
	},
}

// Critical targeted patterns. These are phrase-level, not term-level,
// and always carry critical severity.
var criticalFamilies = []patternFamily{
	{
		category: types.CategoryViolence, // self-harm
		severity: types.SeverityCritical,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bhurt\s+(?:myself|yourself)\b`),
			regexp.MustCompile(`\bhow\s+to\s+\w+\s+(?:myself|yourself)\b`),
			regexp.MustCompile(`\b(?:unalive|self\s*delete|forever\s+sleep)\b`),
			termSet("suicide"),
		},
	},
	{
		category: types.CategoryDangerous, // explosives
		severity: types.SeverityCritical,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:make|build|create)\b[^.!?]*\b(?:bomb|explosive|dynamite|weapon)\b`),
			regexp.MustCompile(`\bmake\b[^.!?]*\bexplode\b`),
		},
	},
	{
		category: types.CategoryPersonalInfo, // location / financial solicitation
		severity: types.SeverityCritical,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bwhere\b[^.!?]*\b(?:you\s+)?live\b`),
			regexp.MustCompile(`\bwhat(?:'s|\s+is)\s+your\b[^.!?]*\baddress\b`),
			regexp.MustCompile(`\bsend\b[^.!?]*\bmoney\b`),
		},
	},
	{
		category: types.CategoryPersonalInfo, // meeting a stranger
		severity: types.SeverityCritical,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bmeet\b[^.!?]*\b(?:in\s+person|somewhere|secretly)\b`),
			regexp.MustCompile(`\b(?:secret|don't\s+tell)\b[^.!?]*\b(?:parents?|mom|dad|teacher)\b`),
		},
	},
}

// Suspicious-context heuristics: circumvention probes and coded
// language that slip past plain term lists.
var suspiciousFamily = patternFamily{
	category: types.CategoryOffTopic,
	severity: types.SeverityModerate,
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`\bhow\s+(?:do\s+i|can\s+i|to)\s+(?:get\s+around|bypass|avoid|trick)\b`),
		regexp.MustCompile(`\b(?:pretend|imagine|act\s+like)\b[^.!?]*\b(?:boyfriend|girlfriend|dating)\b`),
		regexp.MustCompile(`\b(?:tell|show|give)\s+me\b[^.!?]*\b(?:adult|mature|grown\s+up)\b`),
	},
}

// phonePattern is scanned against the raw lowercased text, not the
// normalized text: leetspeak folding rewrites digits and would hide
// real phone numbers.
var phonePattern = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)

// compileTopics turns a profile's blocked-topic list into one
// word-boundary regex, or nil when the list is empty.
func compileTopics(topics []string) *regexp.Regexp {
	cleaned := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return termSet(cleaned...)
}
