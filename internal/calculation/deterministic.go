package calculation

import (
	"time"

	"github.com/rpgo/budgetcast/pkg/dateutil"
)

// Clock supplies "today" to callers that have no explicit as-of date.
// The engine itself never reads a clock.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Today() time.Time { return dateutil.DateOnly(time.Now()) }

// FixedClock always returns the same day.
type FixedClock struct {
	Date time.Time
}

func (c FixedClock) Today() time.Time { return dateutil.DateOnly(c.Date) }

// ResolveAsOf picks the first non-zero candidate, falling back to clock.
func ResolveAsOf(clock Clock, candidates ...time.Time) time.Time {
	for _, c := range candidates {
		if !c.IsZero() {
			return dateutil.DateOnly(c)
		}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return clock.Today()
}
