package safety

// Category is the closed set of safety categories an evaluation can
// assign. Exactly one primary category is chosen per evaluation; when
// multiple pattern families match, the highest-priority category wins.
type Category string

const (
	CategorySafe          Category = "safe"
	CategoryViolence      Category = "violence"
	CategoryInappropriate Category = "inappropriate"
	CategoryPersonalInfo  Category = "personal_info"
	CategoryDangerous     Category = "dangerous"
	CategoryScary         Category = "scary"
	CategoryBullying      Category = "bullying"
	CategoryMedical       Category = "medical"
	CategoryCommercial    Category = "commercial"
	CategoryProfanity     Category = "profanity"
	CategoryOffTopic      Category = "off_topic"
)

// Priority orders categories for primary-category selection; lower is
// more serious. CategorySafe never competes (no issues means safe).
// The switch is exhaustive over the closed set so a new category cannot
// silently fall into a default bucket.
func (c Category) Priority() int {
	switch c {
	case CategoryViolence:
		return 0
	case CategoryInappropriate:
		return 1
	case CategoryPersonalInfo:
		return 2
	case CategoryDangerous:
		return 3
	case CategoryScary:
		return 4
	case CategoryBullying:
		return 5
	case CategoryProfanity:
		return 6
	case CategoryMedical:
		return 7
	case CategoryCommercial:
		return 8
	case CategoryOffTopic:
		return 9
	case CategorySafe:
		return 10
	}
	return 10
}

// Severity is the 0..4 ordinal scale of how serious a detected issue is.
type Severity int

const (
	SeverityNone     Severity = 0
	SeverityLow      Severity = 1
	SeverityModerate Severity = 2
	SeveritySevere   Severity = 3
	SeverityCritical Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityLow:
		return "low"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}
