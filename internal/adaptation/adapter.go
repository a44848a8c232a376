package adaptation

import (
	"math"
	"strings"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

// Adapter rewrites model output to match an age band's reading profile.
// It has no safety authority: callers must only hand it text the safety
// engine already approved. Adapt is idempotent per band, so re-running
// a turn through the pipeline cannot compound its rewrites.
type Adapter struct {
	cfg  *config.AppConfig
	log  *logger.Logger
	pick func(n int) int
}

type Option func(*Adapter)

// WithPicker overrides the source used to choose among alternative
// phrasings. Tests pin it to a constant.
func WithPicker(pick func(n int) int) Option {
	return func(a *Adapter) { a.pick = pick }
}

func NewAdapter(cfg *config.AppConfig, log *logger.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		cfg:  cfg,
		log:  log.With("component", "AgeAdapter"),
		pick: func(int) int { return 0 },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var followUps = []string{
	"What do you think?",
	"Want to try it yourself?",
	"Can you guess what happens next?",
}

const continuationPrompt = "Want to hear more?"

// Adapt applies the five rewrite steps in order: vocabulary, sentence
// restructuring, length enforcement, engagement injection, and the
// residual scrub. childName may be empty; the greeting is skipped then.
func (a *Adapter) Adapt(text string, band types.AgeBand, childName string) string {
	profile := a.cfg.ProfileFor(band)

	text = substituteVocabulary(text, profile.Vocabulary, a.pick)
	text = restructure(text, profile.Complexity)
	text = a.enforceLength(text, profile, childName)
	text = a.engage(text, profile, childName)
	text = scrubResiduals(text, profile.VagueNumbersGTE)

	a.log.Debug("adapted response", "age_band", string(band), "words", wordCount(text))
	return text
}

// enforceLength truncates to the profile's word budget, reserving room
// for whatever the engagement step will add so the final response still
// fits and a second pass has nothing left to cut.
func (a *Adapter) enforceLength(text string, profile config.AgeProfile, childName string) string {
	limit := profile.MaxWords
	reserve := 0
	if a.greetingApplies(text, profile, childName) {
		reserve = wordCount(greetingFor(childName))
	}

	truncated := truncate(text, limit-reserve)
	if profile.Greeting && !endsWithQuestion(truncated) {
		// A follow-up question may be appended; always leave room for
		// the longest one. If the narrower cut ends in a question
		// nothing is appended and it fits outright.
		return truncate(text, limit-reserve-maxFollowUpWords())
	}
	return truncated
}

func (a *Adapter) engage(text string, profile config.AgeProfile, childName string) string {
	if !profile.Greeting {
		return text
	}
	if a.greetingApplies(text, profile, childName) {
		text = greetingFor(childName) + " " + text
	}
	if !endsWithQuestion(text) {
		text = strings.TrimSpace(text) + " " + followUps[a.pick(len(followUps))]
	}
	return text
}

func (a *Adapter) greetingApplies(text string, profile config.AgeProfile, childName string) bool {
	return profile.Greeting && childName != "" && !strings.Contains(text, greetingFor(childName))
}

func greetingFor(childName string) string {
	return "Hi " + childName + "!"
}

func maxFollowUpWords() int {
	max := 0
	for _, q := range followUps {
		if n := wordCount(q); n > max {
			max = n
		}
	}
	return max
}

func endsWithQuestion(text string) bool {
	return strings.HasSuffix(strings.TrimSpace(text), "?")
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// truncate cuts text to at most max words, preferring the last sentence
// boundary that fits. When no boundary lands within 70% of the budget
// it cuts mid-sentence and asks whether to continue.
func truncate(text string, max int) string {
	if max < 1 || wordCount(text) <= max {
		return text
	}

	var kept []string
	words := 0
	for _, sentence := range splitSentences(text) {
		n := wordCount(sentence)
		if words+n > max {
			break
		}
		kept = append(kept, sentence)
		words += n
	}

	floor := int(math.Ceil(0.7 * float64(max)))
	if words >= floor {
		return strings.Join(kept, " ")
	}

	promptWords := wordCount(continuationPrompt)
	fields := strings.Fields(text)
	cut := max - promptWords
	if cut < 1 {
		cut = 1
	}
	return strings.Join(fields[:cut], " ") + "... " + continuationPrompt
}
