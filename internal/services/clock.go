package services

import (
	"time"

	"github.com/jellyjae/cliftonstrengths/internal/modules/selection"
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

func (c Clock) today() string {
	if c == nil {
		c = systemClock
	}
	return c().UTC().Format(selection.DateLayout)
}
