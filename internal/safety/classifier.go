package safety

import (
	"fmt"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
)

// MinAge and MaxAge bound the supported age domain, inclusive.
const (
	MinAge = 2
	MaxAge = 18
)

// InvalidAgeError reports an age outside [MinAge, MaxAge]. Out-of-range
// ages are never clamped to a nearest band; callers must treat this as
// a hard validation failure.
type InvalidAgeError struct {
	Age int
}

func (e *InvalidAgeError) Error() string {
	return fmt.Sprintf("invalid age %d: supported range is [%d,%d]", e.Age, MinAge, MaxAge)
}

// bandRange is one inclusive cell of the partition. The table is the
// single source of truth for boundary logic; the engine and the adapter
// both resolve bands through it. It historically lived in two places
// with divergent boundaries, which is exactly the bug class this
// package exists to kill.
type bandRange struct {
	band     types.AgeBand
	min, max int
}

var bandTable = []bandRange{
	{types.BandToddler, 2, 4},
	{types.BandPreschool, 5, 6},
	{types.BandEarlyElementary, 7, 8},
	{types.BandLateElementary, 9, 10},
	{types.BandMiddle, 11, 13},
	{types.BandHigh, 14, 17},
	{types.BandAdult, 18, 18},
}

// Classify maps an integer age to its unique band, or fails with
// InvalidAgeError. Stateless and side-effect free.
func Classify(age int) (types.AgeBand, error) {
	if age < MinAge || age > MaxAge {
		return "", &InvalidAgeError{Age: age}
	}
	for _, r := range bandTable {
		if age >= r.min && age <= r.max {
			return r.band, nil
		}
	}
	// Unreachable while bandTable tiles [MinAge, MaxAge]; the partition
	// test iterates every age to keep it that way.
	return "", &InvalidAgeError{Age: age}
}

// RangeOf returns the immutable inclusive bounds of a band. Unknown
// bands return ok=false rather than a guessed range.
func RangeOf(band types.AgeBand) (min, max int, ok bool) {
	for _, r := range bandTable {
		if r.band == band {
			return r.min, r.max, true
		}
	}
	return 0, 0, false
}
