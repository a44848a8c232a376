package safety

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

// EvaluationCache is an optional read-through cache for evaluation
// results. Evaluation is deterministic for a given (text, age), so a
// hit is always valid. Implementations must be safe for concurrent use.
type EvaluationCache interface {
	Get(ctx context.Context, key string) (*types.SafetyResult, bool)
	Set(ctx context.Context, key string, res *types.SafetyResult)
}

// Engine evaluates text against the age-banded safety rules. It is
// immutable after construction apart from the statistics counters and
// is safe for concurrent use.
type Engine struct {
	cfg   *config.AppConfig
	log   *logger.Logger
	cache EvaluationCache

	// blocked-topic regexes are band-specific and compiled once.
	topics map[types.AgeBand]*regexp.Regexp

	mu      sync.Mutex
	blocked map[types.SafetyCategory]int64
}

func NewEngine(cfg *config.AppConfig, log *logger.Logger, cache EvaluationCache) *Engine {
	topics := make(map[types.AgeBand]*regexp.Regexp, len(types.AllBands()))
	for _, band := range types.AllBands() {
		topics[band] = compileTopics(cfg.ProfileFor(band).BlockedTopics)
	}
	return &Engine{
		cfg:     cfg,
		log:     log.With("component", "SafetyEngine"),
		cache:   cache,
		topics:  topics,
		blocked: map[types.SafetyCategory]int64{},
	}
}

// Evaluate runs the full safety evaluation. It never returns an error:
// any internal failure, including a panic in pattern code, converts to
// an unsafe verdict. Failing open is the one bug this engine must not
// have.
func (e *Engine) Evaluate(ctx context.Context, text string, age int) (res *types.SafetyResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("safety evaluation panicked, failing closed", "panic", fmt.Sprint(r), "age", age)
			res = failClosed("evaluation_error")
		}
	}()

	band, err := Classify(age)
	if err != nil {
		e.log.Warn("safety evaluation rejected invalid age", "age", age)
		return failClosed("invalid_age")
	}

	key := cacheKey(text, age)
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, key); ok {
			e.recordOutcome(cached)
			return cached
		}
	}

	res = e.evaluate(text, age, band)
	if e.cache != nil {
		e.cache.Set(ctx, key, res)
	}
	e.recordOutcome(res)
	return res
}

func (e *Engine) evaluate(text string, age int, band types.AgeBand) *types.SafetyResult {
	profile := e.cfg.ProfileFor(band)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return safeResult(band)
	}

	rawLower := strings.ToLower(trimmed)
	normalized := normalizeForScan(trimmed)

	var issues []types.SafetyIssue

	// Blocked topics for this band.
	if re := e.topics[band]; re != nil {
		for _, m := range re.FindAllString(normalized, -1) {
			issues = append(issues, types.SafetyIssue{
				Category: types.CategoryOffTopic,
				Pattern:  m,
				Severity: types.SeverityModerate,
			})
		}
	}

	// Always-on families.
	for _, fam := range baseFamilies {
		issues = append(issues, scanFamily(fam, normalized)...)
	}

	// Tolerance-gated themes.
	if !profile.AllowScary {
		issues = append(issues, scanFamily(scaryFamily, normalized)...)
	}
	if !profile.AllowViolent {
		issues = append(issues, scanFamily(violentThemeFamily, normalized)...)
	}
	if !profile.AllowRomantic {
		issues = append(issues, scanFamily(romanceFamily, normalized)...)
	}

	// Critical phrase patterns.
	for _, fam := range criticalFamilies {
		issues = append(issues, scanFamily(fam, normalized)...)
	}

	// Phone numbers are detected on the raw text; normalization folds
	// digits away.
	for range phonePattern.FindAllString(rawLower, -1) {
		issues = append(issues, types.SafetyIssue{
			Category: types.CategoryPersonalInfo,
			Pattern:  "phone_number",
			Severity: types.SeverityModerate,
		})
	}

	// Suspicious-context heuristics.
	issues = append(issues, scanFamily(suspiciousFamily, normalized)...)
	if symbolDensity(trimmed) > 0.3 {
		issues = append(issues, types.SafetyIssue{
			Category: types.CategoryOffTopic,
			Pattern:  "symbol_density",
			Severity: types.SeverityLow,
		})
	}

	if len(issues) == 0 {
		return safeResult(band)
	}
	return e.unsafeResult(band, profile, issues)
}

func scanFamily(fam patternFamily, text string) []types.SafetyIssue {
	var out []types.SafetyIssue
	for _, p := range fam.patterns {
		for _, m := range p.FindAllString(text, -1) {
			out = append(out, types.SafetyIssue{
				Category: fam.category,
				Pattern:  m,
				Severity: fam.severity,
			})
		}
	}
	return out
}

func (e *Engine) unsafeResult(band types.AgeBand, profile config.AgeProfile, issues []types.SafetyIssue) *types.SafetyResult {
	score := 1.0 - 0.2*float64(len(issues))
	if score < 0 {
		score = 0
	}

	primary := issues[0].Category
	maxSeverity := types.SeverityNone
	criticalCount := 0
	for _, is := range issues {
		if is.Category.Priority() < primary.Priority() {
			primary = is.Category
		}
		if is.Severity > maxSeverity {
			maxSeverity = is.Severity
		}
		if is.Severity >= types.SeverityCritical {
			criticalCount++
		}
	}

	// Younger bands amplify severity by one level, capped at critical.
	if youngBand(band) && maxSeverity < types.SeverityCritical {
		maxSeverity++
	}

	nonCritical := len(issues) - criticalCount
	ageAppropriate := criticalCount == 0 && nonCritical <= profile.MaxIssues

	flags := make([]string, 0, len(issues))
	for _, is := range issues {
		flags = append(flags, string(is.Category)+":"+is.Pattern)
	}

	return &types.SafetyResult{
		Safe:                false,
		Score:               score,
		Flags:               flags,
		Category:            primary,
		Severity:            maxSeverity,
		AgeAppropriate:      ageAppropriate,
		Redirect:            RedirectFor(primary, band),
		EducationalRedirect: EducationalRedirectFor(primary),
		ParentAlert:         maxSeverity >= types.SeverityModerate || !ageAppropriate,
		Details: map[string]any{
			"band":        string(band),
			"issue_count": len(issues),
			"issues":      issues,
		},
	}
}

func safeResult(band types.AgeBand) *types.SafetyResult {
	return &types.SafetyResult{
		Safe:           true,
		Score:          1.0,
		Flags:          []string{},
		Category:       types.CategorySafe,
		Severity:       types.SeverityNone,
		AgeAppropriate: true,
		ParentAlert:    false,
		Details:        map[string]any{"band": string(band)},
	}
}

// failClosed builds the unsafe verdict used when evaluation itself
// cannot be trusted.
func failClosed(flag string) *types.SafetyResult {
	return &types.SafetyResult{
		Safe:           false,
		Score:          0,
		Flags:          []string{flag},
		Category:       types.CategoryOffTopic,
		Severity:       types.SeverityModerate,
		AgeAppropriate: false,
		Redirect:       genericRedirect,
		ParentAlert:    true,
		Details:        map[string]any{"reason": flag},
	}
}

func youngBand(band types.AgeBand) bool {
	switch band {
	case types.BandToddler, types.BandPreschool, types.BandEarlyElementary:
		return true
	}
	return false
}

func cacheKey(text string, age int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", age, text)))
	return "safety:eval:" + hex.EncodeToString(h[:])
}

func (e *Engine) recordOutcome(res *types.SafetyResult) {
	if res == nil || res.Safe {
		return
	}
	e.mu.Lock()
	e.blocked[res.Category]++
	e.mu.Unlock()
	e.log.Warn("unsafe content blocked",
		"category", string(res.Category),
		"severity", res.Severity.String(),
		"issue_count", len(res.Flags),
		"parent_alert", res.ParentAlert,
	)
}

// Stats returns a copy of the per-category blocked counters.
func (e *Engine) Stats() map[types.SafetyCategory]int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[types.SafetyCategory]int64, len(e.blocked))
	for k, v := range e.blocked {
		out[k] = v
	}
	return out
}
