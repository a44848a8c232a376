package safety

// Issue is a single pattern match produced during evaluation. Repeated
// matches of the same pattern are kept as separate issues so the score
// degrades with repetition.
type Issue struct {
	Category Category `json:"category"`
	Pattern  string   `json:"pattern"`
	Severity Severity `json:"severity"`
}

// Result is the immutable output of one safety evaluation. It is
// constructed once by the engine and never mutated afterwards.
type Result struct {
	Safe                bool           `json:"safe"`
	Score               float64        `json:"score"`
	Flags               []string       `json:"flags"`
	Category            Category       `json:"category"`
	Severity            Severity       `json:"severity"`
	AgeAppropriate      bool           `json:"age_appropriate"`
	Redirect            string         `json:"redirect,omitempty"`
	EducationalRedirect string         `json:"educational_redirect,omitempty"`
	ParentAlert         bool           `json:"parent_alert"`
	Details             map[string]any `json:"details,omitempty"`
}
