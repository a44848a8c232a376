package adaptation

import (
	"strings"
	"testing"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

func newTestAdapter(t *testing.T, opts ...Option) (*Adapter, *config.AppConfig) {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return NewAdapter(cfg, log, opts...), cfg
}

func TestAdapt_VocabularySubstitution(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("Photosynthesis is neat.", types.BandMiddle, "")
	want := "The way plants turn sunlight into food is neat."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAdapt_VocabularyPreservesLowercase(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("My hypothesis is bold.", types.BandMiddle, "")
	want := "My educated guess is bold."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAdapt_VocabularyRespectsWordBoundaries(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("Scientists hypothesise all day.", types.BandMiddle, "")
	if got != "Scientists hypothesise all day." {
		t.Fatalf("boundary leak: %q", got)
	}
}

func TestAdapt_SimpleBandSplitsClauses(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("Plants need water, and they need light.", types.BandToddler, "Mia")
	want := "Hi Mia! Plants need water. They need light. What do you think?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAdapt_CompoundBandCapsClauses(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("We measured growth, recorded results, and compared notes.", types.BandLateElementary, "")
	want := "We measured growth, recorded results. And compared notes. What do you think?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAdapt_SophisticatedBandPassesThrough(t *testing.T) {
	a, _ := newTestAdapter(t)
	in := "Selection pressure shapes populations, and drift compounds the effect over generations."
	if got := a.Adapt(in, types.BandAdult, ""); got != in {
		t.Fatalf("expected pass-through, got %q", got)
	}
}

func TestAdapt_TruncatesAtSentenceBoundary(t *testing.T) {
	a, cfg := newTestAdapter(t)
	profile := cfg.Profiles[types.BandMiddle]
	profile.MaxWords = 10
	cfg.Profiles[types.BandMiddle] = profile

	got := a.Adapt("One two three four five six seven. Eight nine ten eleven twelve.", types.BandMiddle, "")
	want := "One two three four five six seven."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAdapt_HardTruncateAddsContinuation(t *testing.T) {
	a, cfg := newTestAdapter(t)
	profile := cfg.Profiles[types.BandMiddle]
	profile.MaxWords = 10
	cfg.Profiles[types.BandMiddle] = profile

	long := strings.Repeat("word ", 30)
	got := a.Adapt(strings.TrimSpace(long), types.BandMiddle, "")
	if !strings.HasSuffix(got, "... "+continuationPrompt) {
		t.Fatalf("expected continuation prompt, got %q", got)
	}
	if n := wordCount(got); n > 10 {
		t.Fatalf("truncated output has %d words, budget 10", n)
	}
}

func TestAdapt_BudgetHeldWhenNarrowCutEndsInQuestion(t *testing.T) {
	a, cfg := newTestAdapter(t)
	profile := cfg.Profiles[types.BandToddler]
	profile.MaxWords = 12
	cfg.Profiles[types.BandToddler] = profile

	// The cut that reserves follow-up room lands on a question, so no
	// follow-up is appended and the budget must still hold.
	input := "Is water wet today my friend? One two three four five six. " +
		"Seven eight nine ten eleven twelve."
	got := a.Adapt(input, types.BandToddler, "")
	if want := "Is water wet today my friend?"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if n := wordCount(got); n > 12 {
		t.Fatalf("output has %d words, budget 12", n)
	}
}

func TestAdapt_GreetingNotDuplicated(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("Hi Mia! We love shapes.", types.BandToddler, "Mia")
	if n := strings.Count(got, "Hi Mia!"); n != 1 {
		t.Fatalf("greeting appears %d times in %q", n, got)
	}
}

func TestAdapt_NoFollowUpWhenAlreadyQuestion(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("Do you like frogs?", types.BandToddler, "")
	if got != "Do you like frogs?" {
		t.Fatalf("got %q", got)
	}
}

func TestAdapt_ScrubsContactSurfaceAndBigNumbers(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("Visit www.frogs.example now for 50000 frog facts.", types.BandToddler, "Sam")
	want := "Hi Sam! Visit [removed] now for many frog facts. What do you think?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAdapt_ScrubsEmailAndPhone(t *testing.T) {
	a, _ := newTestAdapter(t)
	got := a.Adapt("Write to teach@example.com or call 555-123-4567.", types.BandHigh, "")
	if strings.Contains(got, "@") || strings.Contains(got, "555") {
		t.Fatalf("contact surface leaked: %q", got)
	}
	if strings.Count(got, redactedToken) != 2 {
		t.Fatalf("expected two redactions, got %q", got)
	}
}

func TestAdapt_Idempotence(t *testing.T) {
	a, _ := newTestAdapter(t)
	input := "Hi! Photosynthesis is amazing, and plants use it every day. " +
		"The ecosystem depends on sunlight, water, and air. " +
		"Call me at 555-123-4567 or visit www.example.com for 50000 facts."

	for _, band := range types.AllBands() {
		once := a.Adapt(input, band, "Leo")
		twice := a.Adapt(once, band, "Leo")
		if once != twice {
			t.Fatalf("band %s not idempotent:\n once: %q\ntwice: %q", band, once, twice)
		}
	}
}

func TestAdapt_IdempotenceAfterTruncation(t *testing.T) {
	a, cfg := newTestAdapter(t)
	profile := cfg.Profiles[types.BandToddler]
	profile.MaxWords = 12
	cfg.Profiles[types.BandToddler] = profile

	input := strings.TrimSpace(strings.Repeat("frogs jump high and far today ", 8))
	once := a.Adapt(input, types.BandToddler, "Leo")
	twice := a.Adapt(once, types.BandToddler, "Leo")
	if once != twice {
		t.Fatalf("truncated output not stable:\n once: %q\ntwice: %q", once, twice)
	}
	if n := wordCount(once); n > 12 {
		t.Fatalf("output has %d words, budget 12", n)
	}
}

func TestAdapt_PickerIsInjectable(t *testing.T) {
	last := func(n int) int { return n - 1 }
	a, _ := newTestAdapter(t, WithPicker(last))

	got := a.Adapt("Frogs are green.", types.BandToddler, "")
	want := "Frogs are green. " + followUps[len(followUps)-1]
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	again := a.Adapt("Frogs are green.", types.BandToddler, "")
	if got != again {
		t.Fatalf("picker output not deterministic: %q vs %q", got, again)
	}
}
