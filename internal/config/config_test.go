package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SAFETY_CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	for _, band := range types.AllBands() {
		p, ok := cfg.Profiles[band]
		if !ok {
			t.Fatalf("missing profile for band %q", band)
		}
		if p.MaxWords <= 0 {
			t.Errorf("band %q: max_words = %d", band, p.MaxWords)
		}
	}
	if len(cfg.Pipeline.Order) == 0 {
		t.Fatal("pipeline order empty")
	}
	if cfg.Pipeline.Order[0] != StageSafety {
		t.Errorf("first stage = %q, want %q", cfg.Pipeline.Order[0], StageSafety)
	}
	if cfg.IncidentInputMax != 500 {
		t.Errorf("IncidentInputMax = %d, want 500", cfg.IncidentInputMax)
	}
	if cfg.IncidentRetentionDays != 90 {
		t.Errorf("IncidentRetentionDays = %d, want 90", cfg.IncidentRetentionDays)
	}
}

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "safety.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	return path
}

func TestLoad_OverlayReplacesProfile(t *testing.T) {
	path := writeOverlay(t, `
profiles:
  toddler:
    band: toddler
    max_words: 30
    complexity: simple
    vocabulary: basic
    strictness: 4
    max_issues: 0
    greeting: true
incident_retention_days: 30
`)
	t.Setenv("SAFETY_CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.Profiles[types.BandToddler].MaxWords; got != 30 {
		t.Errorf("toddler max_words = %d, want 30", got)
	}
	// Untouched bands keep the embedded defaults.
	if got := cfg.Profiles[types.BandPreschool].MaxWords; got != 50 {
		t.Errorf("preschool max_words = %d, want 50", got)
	}
	if cfg.IncidentRetentionDays != 30 {
		t.Errorf("IncidentRetentionDays = %d, want 30", cfg.IncidentRetentionDays)
	}
}

func TestLoad_RejectsUnknownComplexity(t *testing.T) {
	path := writeOverlay(t, `
profiles:
  toddler:
    band: toddler
    max_words: 40
    complexity: baroque
    vocabulary: basic
`)
	t.Setenv("SAFETY_CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded with unknown complexity tier")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
}

func TestLoad_RejectsSafetyNotFirst(t *testing.T) {
	path := writeOverlay(t, `
pipeline:
  order: [model_respond, safety, adaptation]
`)
	t.Setenv("SAFETY_CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded with safety stage not first")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
}

func TestLoad_RejectsMissingOverlayFile(t *testing.T) {
	t.Setenv("SAFETY_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded with unreadable overlay path")
	}
}

func TestProfileFor_PanicsOnUnknownBand(t *testing.T) {
	t.Setenv("SAFETY_CONFIG_PATH", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("ProfileFor did not panic on unknown band")
		}
	}()
	cfg.ProfileFor(types.AgeBand("galactic"))
}
