package safety

// AgeBand is one cell of the exhaustive age partition over [2,18].
// The partition is closed: every integer age in range maps to exactly
// one band, and the bands' inclusive ranges tile the domain with no
// gaps or overlaps. Boundary logic lives in one place (the classifier);
// nothing else may carry its own age table.
type AgeBand string

const (
	BandToddler         AgeBand = "toddler"          // ages 2-4
	BandPreschool       AgeBand = "preschool"        // ages 5-6
	BandEarlyElementary AgeBand = "early_elementary" // ages 7-8
	BandLateElementary  AgeBand = "late_elementary"  // ages 9-10
	BandMiddle          AgeBand = "middle"           // ages 11-13
	BandHigh            AgeBand = "high"             // ages 14-17
	BandAdult           AgeBand = "adult"            // age 18
)

// AllBands lists every band in ascending age order.
func AllBands() []AgeBand {
	return []AgeBand{
		BandToddler,
		BandPreschool,
		BandEarlyElementary,
		BandLateElementary,
		BandMiddle,
		BandHigh,
		BandAdult,
	}
}

// ComplexityTier is the sentence-structure tier an age profile allows.
type ComplexityTier string

const (
	ComplexitySimple        ComplexityTier = "simple"
	ComplexityCompound      ComplexityTier = "compound"
	ComplexityComplex       ComplexityTier = "complex"
	ComplexitySophisticated ComplexityTier = "sophisticated"
)

// VocabularyTier selects the synonym table used for vocabulary rewriting.
type VocabularyTier string

const (
	VocabularyBasic        VocabularyTier = "basic"
	VocabularyIntermediate VocabularyTier = "intermediate"
	VocabularyAdvanced     VocabularyTier = "advanced"
)
