package safety

import (
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
)

// redirectKey addresses the positive-redirection table. Bands are
// grouped into three voice registers; a full 11x7 matrix of bespoke
// strings would drift out of sync with the band table.
type redirectKey struct {
	category types.SafetyCategory
	register string
}

const (
	registerYoung = "young" // toddler .. early elementary
	registerKid   = "kid"   // late elementary, middle
	registerTeen  = "teen"  // high, adult
)

func registerFor(band types.AgeBand) string {
	switch band {
	case types.BandToddler, types.BandPreschool, types.BandEarlyElementary:
		return registerYoung
	case types.BandLateElementary, types.BandMiddle:
		return registerKid
	default:
		return registerTeen
	}
}

var redirectTable = map[redirectKey]string{
	{types.CategoryViolence, registerYoung}: "Let's talk about something happy instead! Do you want to learn how animals take care of each other?",
	{types.CategoryViolence, registerKid}:   "Let's explore the physics of motion instead! Want to know about forces, energy, or how things move?",
	{types.CategoryViolence, registerTeen}:  "Let's redirect that energy into physics or engineering. Interested in how safety equipment is designed?",

	{types.CategoryInappropriate, registerYoung}: "That's a grown-up topic. How about we learn something fun about plants or animals?",
	{types.CategoryInappropriate, registerKid}:   "That topic is for grown-ups. Would you like to learn how the human body works from a science perspective?",
	{types.CategoryInappropriate, registerTeen}:  "That's outside what I can discuss. We could look at biology or health science instead.",

	{types.CategoryPersonalInfo, registerYoung}: "We keep that kind of thing private! Let's learn about something fun instead, like colors or counting.",
	{types.CategoryPersonalInfo, registerKid}:   "Safety first! Personal details stay private. Want to learn how encryption keeps information safe?",
	{types.CategoryPersonalInfo, registerTeen}:  "I can't help with personal information. How about internet safety or cryptography instead?",

	{types.CategoryDangerous, registerYoung}: "That's not safe! Let's learn about helpers like firefighters instead.",
	{types.CategoryDangerous, registerKid}:   "Safety first! Instead, let's learn how scientists work safely in real laboratories.",
	{types.CategoryDangerous, registerTeen}:  "I can't help with that. We could explore lab safety, chemistry done right, or engineering instead.",

	{types.CategoryScary, registerYoung}: "Let's look at something amazing instead! Did you know some ocean animals glow in the dark?",
	{types.CategoryScary, registerKid}:   "How about something fascinating instead? There are real glow-in-the-dark creatures in the deep sea!",
	{types.CategoryScary, registerTeen}:  "Let's switch topics. The science of bioluminescence is genuinely wild, want to hear about it?",

	{types.CategoryBullying, registerYoung}: "Let's use kind words! Want to learn about being a good friend?",
	{types.CategoryBullying, registerKid}:   "Let's focus on positive things! How about teamwork, or how engineers solve problems together?",
	{types.CategoryBullying, registerTeen}:  "Let's keep things respectful. We could look at the psychology of teamwork instead.",
}

const genericRedirect = "Let's talk about something else! What would you like to learn about today?"

// RedirectFor returns the age-band-specific positive redirection for a
// category, falling back to the generic phrase when the pair has no
// bespoke entry.
func RedirectFor(category types.SafetyCategory, band types.AgeBand) string {
	if msg, ok := redirectTable[redirectKey{category, registerFor(band)}]; ok {
		return msg
	}
	return genericRedirect
}

// educationalRedirects suggest a concrete safe STEM alternative per
// category, used alongside the conversational redirect.
var educationalRedirects = map[types.SafetyCategory]string{
	types.CategoryViolence:      "Try asking about forces, energy, or how machines move.",
	types.CategoryInappropriate: "Try asking how plants grow or how the heart pumps blood.",
	types.CategoryPersonalInfo:  "Try asking how passwords and codes keep secrets safe.",
	types.CategoryDangerous:     "Try asking how volcanoes erupt or how rockets launch safely.",
	types.CategoryScary:         "Try asking about deep-sea creatures or glowing animals.",
	types.CategoryBullying:      "Try asking how teams of engineers build big projects together.",
	types.CategoryProfanity:     "Try asking about the science of language and how words work.",
	types.CategoryMedical:       "Try asking how doctors use science to help people.",
	types.CategoryCommercial:    "Try asking how money math works, like percentages.",
	types.CategoryOffTopic:      "Try asking a science, technology, engineering, or math question.",
}

// EducationalRedirectFor returns the category's safe-alternative prompt.
func EducationalRedirectFor(category types.SafetyCategory) string {
	if msg, ok := educationalRedirects[category]; ok {
		return msg
	}
	return educationalRedirects[types.CategoryOffTopic]
}
