package stages

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	safetyengine "github.com/sproutlearn/sproutlearn-backend/internal/safety"
)

type subjectMatcher struct {
	subject string
	re      *regexp.Regexp
}

func subjectPattern(subject string, terms ...string) subjectMatcher {
	return subjectMatcher{
		subject: subject,
		re:      regexp.MustCompile(`\b(?:` + strings.Join(terms, "|") + `)\b`),
	}
}

// Order matters: the first matching subject wins, so the more specific
// subjects come before the catch-all science bucket.
var subjectMatchers = []subjectMatcher{
	subjectPattern("mathematics", "math", "number", "numbers", "count", "counting", "add", "subtract", "multiply", "divide", "fraction", "fractions", "geometry", "shape", "shapes", "algebra"),
	subjectPattern("technology", "computer", "computers", "robot", "robots", "code", "coding", "program", "programming", "internet", "app", "software"),
	subjectPattern("engineering", "build", "building", "bridge", "bridges", "machine", "machines", "engine", "engines", "design", "invent", "structure"),
	subjectPattern("science", "science", "plant", "plants", "animal", "animals", "space", "planet", "planets", "star", "stars", "weather", "water", "energy", "magnet", "magnets", "dinosaur", "dinosaurs", "body", "chemistry", "physics", "biology", "experiment", "gravity", "electricity"),
}

// TutorStage classifies the turn into a STEM subject, estimates how
// demanding the exchange was, and checks the turn against the band's
// approved topic list. The progress and achievement stages read what
// it records.
type TutorStage struct {
	cfg *config.AppConfig
	log *logger.Logger
}

func NewTutorStage(cfg *config.AppConfig, log *logger.Logger) *TutorStage {
	return &TutorStage{cfg: cfg, log: log.With("stage", config.StageTutor)}
}

func (s *TutorStage) Name() string { return config.StageTutor }

func (s *TutorStage) Apply(_ context.Context, turn *pipeline.Context) error {
	band, err := safetyengine.Classify(turn.ChildAge)
	if err != nil {
		return err
	}
	lower := strings.ToLower(turn.InputText)

	subject := "general"
	var concepts []string
	for _, m := range subjectMatchers {
		if hits := m.re.FindAllString(lower, -1); len(hits) > 0 {
			subject = m.subject
			concepts = dedupe(hits)
			break
		}
	}

	turn.SetStageMeta(config.StageTutor, map[string]any{
		"subject":    subject,
		"concepts":   concepts,
		"complexity": estimateComplexity(turn.InputText),
		"on_topic":   onBandCurriculum(s.cfg.ProfileFor(band).AllowedTopics, subject, lower),
	})
	return nil
}

// onBandCurriculum reports whether the turn touches one of the band's
// approved topics, either through the detected subject (the "math"
// topic covers the mathematics subject) or by a direct mention in the
// question. Plurals are folded so "animals" covers "animal".
func onBandCurriculum(allowed []string, subject, lower string) bool {
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, topic := range allowed {
		if strings.HasPrefix(subject, topic) {
			return true
		}
		singular := strings.TrimSuffix(topic, "s")
		for _, tok := range tokens {
			if strings.TrimSuffix(tok, "s") == singular {
				return true
			}
		}
	}
	return false
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// estimateComplexity is a crude 0..1 signal from question length and
// the presence of causal phrasing. Enough for trend lines, nothing more.
func estimateComplexity(text string) float64 {
	words := len(strings.Fields(text))
	score := float64(words) / 40.0
	lower := strings.ToLower(text)
	for _, marker := range []string{"why", "how", "explain", "compare", "difference"} {
		if strings.Contains(lower, marker) {
			score += 0.15
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}
