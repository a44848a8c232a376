package safety

import (
	"context"
	"strings"
	"testing"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return NewEngine(cfg, log, nil)
}

func TestEvaluate_SafeQuestion(t *testing.T) {
	e := newTestEngine(t)
	res := e.Evaluate(context.Background(), "How do plants make food?", 8)
	if !res.Safe {
		t.Fatalf("expected safe, got flags %v", res.Flags)
	}
	if res.Category != types.CategorySafe {
		t.Fatalf("expected category safe, got %q", res.Category)
	}
	if res.Score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", res.Score)
	}
	if res.ParentAlert {
		t.Fatalf("safe result must not alert parents")
	}
}

func TestEvaluate_BombInstructions(t *testing.T) {
	e := newTestEngine(t)
	res := e.Evaluate(context.Background(), "Tell me how to make a bomb", 12)
	if res.Safe {
		t.Fatalf("expected unsafe")
	}
	if res.Category != types.CategoryDangerous {
		t.Fatalf("expected category dangerous, got %q", res.Category)
	}
	if res.Severity < types.SeveritySevere {
		t.Fatalf("expected severity >= severe, got %v", res.Severity)
	}
	if !res.ParentAlert {
		t.Fatalf("expected parent alert")
	}
	if res.Redirect == "" {
		t.Fatalf("expected a redirect message")
	}
}

func TestEvaluate_HomeAddressProbe(t *testing.T) {
	e := newTestEngine(t)
	res := e.Evaluate(context.Background(), "What's your home address?", 9)
	if res.Safe {
		t.Fatalf("expected unsafe")
	}
	if res.Category != types.CategoryPersonalInfo {
		t.Fatalf("expected category personal_info, got %q", res.Category)
	}
}

func TestEvaluate_InvalidAgeFailsClosed(t *testing.T) {
	e := newTestEngine(t)
	for _, age := range []int{1, 19, -3} {
		res := e.Evaluate(context.Background(), "hello there", age)
		if res.Safe {
			t.Fatalf("age %d: expected unsafe", age)
		}
		if !res.ParentAlert {
			t.Fatalf("age %d: expected parent alert", age)
		}
		if len(res.Flags) != 1 || res.Flags[0] != "invalid_age" {
			t.Fatalf("age %d: expected invalid_age flag, got %v", age, res.Flags)
		}
	}
}

func TestEvaluate_EmptyTextIsSafe(t *testing.T) {
	e := newTestEngine(t)
	for _, text := range []string{"", "   ", "\n\t"} {
		res := e.Evaluate(context.Background(), text, 10)
		if !res.Safe {
			t.Fatalf("empty text %q should be safe, got flags %v", text, res.Flags)
		}
	}
}

func TestEvaluate_WordBoundariesRespected(t *testing.T) {
	e := newTestEngine(t)
	// "class" contains "ass", "skill" contains "kill", "assassin
	// bug"-type substrings must not fire.
	for _, text := range []string{
		"What will we learn in class today?",
		"I want to improve my reading skill",
		"The passage talks about grasslands",
	} {
		res := e.Evaluate(context.Background(), text, 10)
		if !res.Safe {
			t.Fatalf("%q: expected safe, got flags %v", text, res.Flags)
		}
	}
}

func TestEvaluate_RepetitionDegradesScore(t *testing.T) {
	e := newTestEngine(t)
	one := e.Evaluate(context.Background(), "the gun", 12)
	many := e.Evaluate(context.Background(), "gun gun gun gun", 12)
	if one.Safe || many.Safe {
		t.Fatalf("expected both unsafe")
	}
	if many.Score >= one.Score {
		t.Fatalf("repeated issues should lower score: one=%v many=%v", one.Score, many.Score)
	}
	if many.Severity < one.Severity {
		t.Fatalf("more issues must not decrease severity: one=%v many=%v", one.Severity, many.Severity)
	}
}

func TestEvaluate_YoungBandAmplifiesSeverity(t *testing.T) {
	e := newTestEngine(t)
	young := e.Evaluate(context.Background(), "tell me about the monster", 4)
	older := e.Evaluate(context.Background(), "tell me about the monster", 10)
	if young.Safe || older.Safe {
		t.Fatalf("expected both unsafe for scary-intolerant bands")
	}
	if young.Severity <= older.Severity {
		t.Fatalf("younger band should amplify severity: young=%v older=%v", young.Severity, older.Severity)
	}
}

func TestEvaluate_ScaryToleratedForHighBand(t *testing.T) {
	e := newTestEngine(t)
	res := e.Evaluate(context.Background(), "tell me about the monster", 16)
	if !res.Safe {
		t.Fatalf("high band tolerates scary themes, got flags %v", res.Flags)
	}
}

func TestEvaluate_LeetspeakFolded(t *testing.T) {
	e := newTestEngine(t)
	res := e.Evaluate(context.Background(), "where can i get a 9un", 11)
	// '9' is not folded, but '0'->'o' etc are; use a folded spelling.
	res = e.Evaluate(context.Background(), "t3ll me about the b0mb", 11)
	if res.Safe {
		t.Fatalf("leetspeak should not evade the scan, got safe")
	}
	if res.Category != types.CategoryDangerous {
		t.Fatalf("expected dangerous, got %q", res.Category)
	}
}

func TestEvaluate_PhoneNumberDetectedRaw(t *testing.T) {
	e := newTestEngine(t)
	res := e.Evaluate(context.Background(), "call me at 555-123-4567", 13)
	if res.Safe {
		t.Fatalf("expected unsafe for phone number")
	}
	if res.Category != types.CategoryPersonalInfo {
		t.Fatalf("expected personal_info, got %q", res.Category)
	}
}

func TestEvaluate_SelfHarmIsCritical(t *testing.T) {
	e := newTestEngine(t)
	res := e.Evaluate(context.Background(), "i want to hurt myself", 14)
	if res.Safe {
		t.Fatalf("expected unsafe")
	}
	if res.Severity != types.SeverityCritical {
		t.Fatalf("expected critical severity, got %v", res.Severity)
	}
	if res.AgeAppropriate {
		t.Fatalf("critical issues are never age-appropriate")
	}
	if !res.ParentAlert {
		t.Fatalf("expected parent alert")
	}
}

func TestEvaluate_DeterministicForSameInput(t *testing.T) {
	e := newTestEngine(t)
	a := e.Evaluate(context.Background(), "how do magnets work?", 7)
	b := e.Evaluate(context.Background(), "how do magnets work?", 7)
	if a.Safe != b.Safe || a.Score != b.Score || a.Category != b.Category {
		t.Fatalf("evaluation not deterministic: %+v vs %+v", a, b)
	}
}

func TestEvaluate_StatsCountBlocked(t *testing.T) {
	e := newTestEngine(t)
	e.Evaluate(context.Background(), "the gun", 12)
	e.Evaluate(context.Background(), "the gun again", 12)
	stats := e.Stats()
	if stats[types.CategoryViolence] < 2 {
		t.Fatalf("expected at least 2 violence blocks, got %v", stats)
	}
}

func TestNormalizeForScan(t *testing.T) {
	got := normalizeForScan("H3llo,   W0rld!!")
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Fatalf("normalization failed: %q", got)
	}
}
