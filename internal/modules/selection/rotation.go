package selection

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

// DateLayout is the only accepted calendar date form.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ParseDate parses a YYYY-MM-DD string as UTC midnight. Anything that does not
// round-trip exactly (times, single-digit fields) is rejected.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, s, err)
	}
	if t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: date %q is not canonical", ErrInvalidInput, s)
	}
	return t, nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// DayIndex is the number of whole days between the Unix epoch and t's UTC
// midnight. It is floored, so dates before 1970 get negative indexes.
func DayIndex(t time.Time) int64 {
	secs := t.UTC().Unix()
	d := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		d--
	}
	return d
}

// StrengthIndex picks which ranked strength is primary for an aspect on a day:
// (dayIndex + aspectIndex) mod 5, always in [0, 5).
func StrengthIndex(dayIndex int64, aspectIndex int) int {
	m := (dayIndex + int64(aspectIndex)) % types.StrengthCount
	if m < 0 {
		m += types.StrengthCount
	}
	return int(m)
}

// PrimaryThemes returns the primary theme for each aspect, in aspect order.
// themeIDs must be the five strengths ordered by rank.
func PrimaryThemes(themeIDs []uuid.UUID, dayIndex int64) [len(types.Aspects)]uuid.UUID {
	var out [len(types.Aspects)]uuid.UUID
	if len(themeIDs) != types.StrengthCount {
		return out
	}
	for i := range types.Aspects {
		out[i] = themeIDs[StrengthIndex(dayIndex, i)]
	}
	return out
}
