package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ConfigurationError means the safety-critical tables are missing or
// malformed. It is fatal at startup: the service must refuse to run
// rather than fall back to defaults for a safety table.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// AgeProfile is the per-band configuration block. Profiles are loaded
// once at startup and shared read-only afterwards.
type AgeProfile struct {
	Band            types.AgeBand        `yaml:"band"`
	MaxWords        int                  `yaml:"max_words"`
	Complexity      types.ComplexityTier `yaml:"complexity"`
	Vocabulary      types.VocabularyTier `yaml:"vocabulary"`
	AllowedTopics   []string             `yaml:"allowed_topics"`
	BlockedTopics   []string             `yaml:"blocked_topics"`
	Strictness      int                  `yaml:"strictness"`
	AllowScary      bool                 `yaml:"allow_scary"`
	AllowViolent    bool                 `yaml:"allow_violent"`
	AllowRomantic   bool                 `yaml:"allow_romantic"`
	MaxIssues       int                  `yaml:"max_issues"` // tolerated non-critical issues; policy knob, not code
	Greeting        bool                 `yaml:"greeting"`
	VagueNumbersGTE int                  `yaml:"vague_numbers_gte"` // 0 disables large-number vagueing
}

// Pipeline holds the ordered stage list. The safety stage must precede
// every content-shaping stage; validation enforces it.
type Pipeline struct {
	Order []string `yaml:"order"`
}

// AppConfig is the full static configuration surface. One instance is
// constructed at startup and passed by shared immutable reference into
// every component constructor; there is no ambient global.
type AppConfig struct {
	Profiles map[types.AgeBand]AgeProfile `yaml:"profiles"`
	Pipeline Pipeline                     `yaml:"pipeline"`

	// IncidentInputMax caps persisted incident input text, in runes.
	IncidentInputMax int `yaml:"incident_input_max"`
	// IncidentRetentionDays bounds parent-dashboard queries.
	IncidentRetentionDays int `yaml:"incident_retention_days"`
}

// Load reads the embedded defaults, overlays an optional YAML file from
// SAFETY_CONFIG_PATH, and validates the result. Any validation failure
// returns a ConfigurationError and no config.
func Load() (*AppConfig, error) {
	cfg, err := parse(defaultsYAML)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("embedded defaults unreadable: %v", err)}
	}
	if path := strings.TrimSpace(os.Getenv("SAFETY_CONFIG_PATH")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("read %s: %v", path, err)}
		}
		override, err := parse(raw)
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("parse %s: %v", path, err)}
		}
		cfg = merge(cfg, override)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(raw []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func merge(base, override *AppConfig) *AppConfig {
	out := *base
	if len(override.Profiles) > 0 {
		merged := make(map[types.AgeBand]AgeProfile, len(base.Profiles))
		for k, v := range base.Profiles {
			merged[k] = v
		}
		for k, v := range override.Profiles {
			merged[k] = v
		}
		out.Profiles = merged
	}
	if len(override.Pipeline.Order) > 0 {
		out.Pipeline = override.Pipeline
	}
	if override.IncidentInputMax > 0 {
		out.IncidentInputMax = override.IncidentInputMax
	}
	if override.IncidentRetentionDays > 0 {
		out.IncidentRetentionDays = override.IncidentRetentionDays
	}
	return &out
}

func (c *AppConfig) validate() error {
	for _, band := range types.AllBands() {
		p, ok := c.Profiles[band]
		if !ok {
			return &ConfigurationError{Reason: fmt.Sprintf("missing age profile for band %q", band)}
		}
		if p.MaxWords <= 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("band %q: max_words must be positive", band)}
		}
		switch p.Complexity {
		case types.ComplexitySimple, types.ComplexityCompound, types.ComplexityComplex, types.ComplexitySophisticated:
		default:
			return &ConfigurationError{Reason: fmt.Sprintf("band %q: unknown complexity %q", band, p.Complexity)}
		}
		switch p.Vocabulary {
		case types.VocabularyBasic, types.VocabularyIntermediate, types.VocabularyAdvanced:
		default:
			return &ConfigurationError{Reason: fmt.Sprintf("band %q: unknown vocabulary %q", band, p.Vocabulary)}
		}
		if p.MaxIssues < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("band %q: max_issues must be >= 0", band)}
		}
	}
	if len(c.Profiles) != len(types.AllBands()) {
		return &ConfigurationError{Reason: "profile table contains unknown bands"}
	}
	if len(c.Pipeline.Order) == 0 {
		return &ConfigurationError{Reason: "pipeline order is empty"}
	}
	safetyIdx := -1
	for i, name := range c.Pipeline.Order {
		if name == StageSafety {
			safetyIdx = i
			break
		}
	}
	if safetyIdx != 0 {
		return &ConfigurationError{Reason: "safety stage must run first"}
	}
	if c.IncidentInputMax <= 0 {
		return &ConfigurationError{Reason: "incident_input_max must be positive"}
	}
	return nil
}

// ProfileFor returns the profile for a band. The loader guarantees
// every band has one, so a miss is a programmer error surfaced loudly.
func (c *AppConfig) ProfileFor(band types.AgeBand) AgeProfile {
	p, ok := c.Profiles[band]
	if !ok {
		panic(fmt.Sprintf("no age profile for band %q", band))
	}
	return p
}

// Canonical stage names referenced by pipeline config and wiring.
const (
	StageSafety       = "safety"
	StageModelRespond = "model_respond"
	StageAdaptation   = "adaptation"
	StageTutor        = "stem_tutor"
	StageProgress     = "progress_tracker"
	StageAchievement  = "achievement_system"
	StageParentLogger = "parent_logger"
)
