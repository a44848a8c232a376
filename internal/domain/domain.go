package domain

import (
	"github.com/sproutlearn/sproutlearn-backend/internal/domain/education"
	"github.com/sproutlearn/sproutlearn-backend/internal/domain/profiles"
	"github.com/sproutlearn/sproutlearn-backend/internal/domain/safety"
	"github.com/sproutlearn/sproutlearn-backend/internal/domain/sessions"
)

// Umbrella aliases so callers can import one package as `types`.

type AgeBand = safety.AgeBand
type ComplexityTier = safety.ComplexityTier
type VocabularyTier = safety.VocabularyTier
type SafetyCategory = safety.Category
type Severity = safety.Severity
type SafetyIssue = safety.Issue
type SafetyResult = safety.Result
type SafetyIncident = safety.SafetyIncident

type ParentAccount = profiles.ParentAccount
type ChildProfile = profiles.ChildProfile

type SessionLog = sessions.SessionLog

type ProgressSnapshot = education.ProgressSnapshot
type AchievementGrant = education.AchievementGrant

const (
	BandToddler         = safety.BandToddler
	BandPreschool       = safety.BandPreschool
	BandEarlyElementary = safety.BandEarlyElementary
	BandLateElementary  = safety.BandLateElementary
	BandMiddle          = safety.BandMiddle
	BandHigh            = safety.BandHigh
	BandAdult           = safety.BandAdult

	ComplexitySimple        = safety.ComplexitySimple
	ComplexityCompound      = safety.ComplexityCompound
	ComplexityComplex       = safety.ComplexityComplex
	ComplexitySophisticated = safety.ComplexitySophisticated

	VocabularyBasic        = safety.VocabularyBasic
	VocabularyIntermediate = safety.VocabularyIntermediate
	VocabularyAdvanced     = safety.VocabularyAdvanced

	CategorySafe          = safety.CategorySafe
	CategoryViolence      = safety.CategoryViolence
	CategoryInappropriate = safety.CategoryInappropriate
	CategoryPersonalInfo  = safety.CategoryPersonalInfo
	CategoryDangerous     = safety.CategoryDangerous
	CategoryScary         = safety.CategoryScary
	CategoryBullying      = safety.CategoryBullying
	CategoryMedical       = safety.CategoryMedical
	CategoryCommercial    = safety.CategoryCommercial
	CategoryProfanity     = safety.CategoryProfanity
	CategoryOffTopic      = safety.CategoryOffTopic

	SeverityNone     = safety.SeverityNone
	SeverityLow      = safety.SeverityLow
	SeverityModerate = safety.SeverityModerate
	SeveritySevere   = safety.SeveritySevere
	SeverityCritical = safety.SeverityCritical
)

// AllBands re-exports the ordered band list.
func AllBands() []AgeBand { return safety.AllBands() }
