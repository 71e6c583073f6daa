package calculation

import (
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
)

// MaxOccurrenceIterations bounds every occurrence loop.
const MaxOccurrenceIterations = 1000

// OccurrenceSet holds the dates produced for one rule and window.
// Truncated is set when a safety bound stopped the walk before the window was exhausted.
type OccurrenceSet struct {
	Dates     []time.Time
	Truncated bool
}

// Occurrences returns the dates on which rule fires within [windowStart, windowEnd],
// both bounds inclusive and further clamped to the rule's own start and end dates.
func Occurrences(rule domain.RecurrenceRule, windowStart, windowEnd time.Time) (OccurrenceSet, error) {
	windowStart, windowEnd = dateutil.DateOnly(windowStart), dateutil.DateOnly(windowEnd)
	if windowEnd.Before(windowStart) {
		return OccurrenceSet{}, &domain.EmptyWindowError{Start: windowStart, End: windowEnd}
	}
	if err := rule.Validate(); err != nil {
		return OccurrenceSet{}, err
	}

	ruleStart := dateutil.DateOnly(rule.StartDate)
	start := dateutil.MaxDate(windowStart, ruleStart)
	end := dateutil.MinDate(windowEnd, rule.Until(windowEnd))
	if end.Before(start) {
		return OccurrenceSet{}, nil
	}

	w := &occurrenceWalker{end: end, horizon: dateutil.AddYears(windowEnd, 1)}

	switch rule.Frequency.Effective() {
	case domain.FrequencyDaily:
		w.daily(start)
	case domain.FrequencyWeekly:
		w.weekly(start, ruleStart, rule.DayOfWeek, false)
	case domain.FrequencyBiweekly:
		w.weekly(start, ruleStart, rule.DayOfWeek, true)
	case domain.FrequencyQuarterly:
		w.quarterly(start, ruleStart, anchorDay(rule, ruleStart))
	case domain.FrequencyYearly:
		w.yearly(start, ruleStart.Month(), anchorDay(rule, ruleStart))
	default:
		// monthly, and the fallback for unknown frequencies
		if rule.DayOfMonth != nil {
			w.monthlyOnDay(start, *rule.DayOfMonth)
		} else {
			w.monthlyFrom(start, ruleStart)
		}
	}
	return w.set, nil
}

func anchorDay(rule domain.RecurrenceRule, ruleStart time.Time) int {
	if rule.DayOfMonth != nil {
		return *rule.DayOfMonth
	}
	return ruleStart.Day()
}

type occurrenceWalker struct {
	start      time.Time
	end        time.Time
	horizon    time.Time
	iterations int
	set        OccurrenceSet
}

// next reports whether the loop may visit cursor. It stops at the window end and
// marks the set truncated when a safety bound is hit first.
func (w *occurrenceWalker) next(cursor time.Time) bool {
	if cursor.After(w.end) {
		return false
	}
	if cursor.After(w.horizon) || w.iterations >= MaxOccurrenceIterations {
		w.set.Truncated = true
		return false
	}
	w.iterations++
	return true
}

func (w *occurrenceWalker) emit(d time.Time) {
	if d.Before(w.start) || d.After(w.end) {
		return
	}
	w.set.Dates = append(w.set.Dates, d)
}

func (w *occurrenceWalker) daily(start time.Time) {
	w.start = start
	for d := start; w.next(d); d = d.AddDate(0, 0, 1) {
		w.emit(d)
	}
}

func (w *occurrenceWalker) weekly(start, ruleStart time.Time, dayOfWeek *int, biweekly bool) {
	w.start = start
	if dayOfWeek == nil {
		step := 7
		if biweekly {
			step = 14
		}
		// first step from the rule start that lands on or after start
		k := (dateutil.DaysBetween(ruleStart, start) + step - 1) / step
		for d := ruleStart.AddDate(0, 0, k*step); w.next(d); d = d.AddDate(0, 0, step) {
			w.emit(d)
		}
		return
	}

	d := start
	for int(d.Weekday()) != *dayOfWeek {
		d = d.AddDate(0, 0, 1)
	}
	for ; w.next(d); d = d.AddDate(0, 0, 7) {
		if biweekly && (dateutil.DaysBetween(ruleStart, d)/7)%2 != 0 {
			continue
		}
		w.emit(d)
	}
}

func (w *occurrenceWalker) monthlyOnDay(start time.Time, day int) {
	w.start = start
	for m := dateutil.Date(start.Year(), start.Month(), 1); w.next(m); m = m.AddDate(0, 1, 0) {
		w.emit(dateutil.ClampedDate(m.Year(), m.Month(), day))
	}
}

// monthlyFrom steps whole calendar months from the rule start, clamping each step
// from the anchor day so Jan 31 yields Feb 28 and then Mar 31. Steps before start
// are skipped arithmetically so they don't count against the iteration bound.
func (w *occurrenceWalker) monthlyFrom(start, ruleStart time.Time) {
	w.start = start
	k := dateutil.MonthsBetween(ruleStart, start)
	if dateutil.AddMonths(ruleStart, k).Before(start) {
		k++
	}
	for ; ; k++ {
		d := dateutil.AddMonths(ruleStart, k)
		if !w.next(d) {
			return
		}
		w.emit(d)
	}
}

func (w *occurrenceWalker) quarterly(start, ruleStart time.Time, day int) {
	w.start = start
	m := dateutil.Date(start.Year(), start.Month(), 1)
	if offset := dateutil.MonthsBetween(ruleStart, m) % 3; offset != 0 {
		m = m.AddDate(0, 3-offset, 0)
	}
	for ; w.next(m); m = m.AddDate(0, 3, 0) {
		w.emit(dateutil.ClampedDate(m.Year(), m.Month(), day))
	}
}

func (w *occurrenceWalker) yearly(start time.Time, month time.Month, day int) {
	w.start = start
	for y := start.Year(); w.next(dateutil.Date(y, 1, 1)); y++ {
		w.emit(dateutil.ClampedDate(y, month, day))
	}
}
