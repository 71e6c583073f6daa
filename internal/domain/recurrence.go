package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpgo/budgetcast/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Frequency is the cadence of a recurrence rule.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// DefaultFrequency is applied when a rule carries an unknown or empty frequency.
const DefaultFrequency = FrequencyMonthly

// Frequencies lists every supported cadence.
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyBiweekly,
	FrequencyMonthly,
	FrequencyQuarterly,
	FrequencyYearly,
}

// ParseFrequency normalises a frequency name. Unknown names are kept verbatim
// so callers can report them; the calculator treats them as DefaultFrequency.
func ParseFrequency(s string) Frequency {
	return Frequency(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether f is one of the supported cadences.
func (f Frequency) Known() bool {
	for _, k := range Frequencies {
		if f == k {
			return true
		}
	}
	return false
}

// Effective returns f, or DefaultFrequency when f is not a supported cadence.
func (f Frequency) Effective() Frequency {
	if f.Known() {
		return f
	}
	return DefaultFrequency
}

// RecurrenceRule describes when a recurring item occurs.
type RecurrenceRule struct {
	Frequency  Frequency  `yaml:"frequency" json:"frequency"`
	DayOfWeek  *int       `yaml:"day_of_week,omitempty" json:"day_of_week,omitempty"`   // 0 = Sunday
	DayOfMonth *int       `yaml:"day_of_month,omitempty" json:"day_of_month,omitempty"` // 1-31
	StartDate  time.Time  `yaml:"start_date" json:"start_date"`
	EndDate    *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"` // inclusive, nil = unbounded
}

// Validate checks the day fields and the date range.
func (r RecurrenceRule) Validate() error {
	if r.StartDate.IsZero() {
		return &InvalidRecurrenceError{Field: "start_date", Reason: "is required"}
	}
	if r.DayOfMonth != nil && (*r.DayOfMonth < 1 || *r.DayOfMonth > 31) {
		return &InvalidRecurrenceError{Field: "day_of_month", Value: *r.DayOfMonth, Reason: "must be between 1 and 31"}
	}
	if r.DayOfWeek != nil && (*r.DayOfWeek < 0 || *r.DayOfWeek > 6) {
		return &InvalidRecurrenceError{Field: "day_of_week", Value: *r.DayOfWeek, Reason: "must be between 0 (Sunday) and 6 (Saturday)"}
	}
	if r.EndDate != nil && dateutil.DateOnly(*r.EndDate).Before(dateutil.DateOnly(r.StartDate)) {
		return &InvalidRecurrenceError{Field: "end_date", Reason: "precedes start_date"}
	}
	return nil
}

// Until returns the inclusive end date, or fallback when the rule is unbounded.
func (r RecurrenceRule) Until(fallback time.Time) time.Time {
	if r.EndDate == nil {
		return fallback
	}
	return dateutil.DateOnly(*r.EndDate)
}

type recurrenceYAML struct {
	Frequency  string `yaml:"frequency,omitempty"`
	DayOfWeek  *int   `yaml:"day_of_week,omitempty"`
	DayOfMonth *int   `yaml:"day_of_month,omitempty"`
	StartDate  string `yaml:"start_date"`
	EndDate    string `yaml:"end_date,omitempty"`
}

// UnmarshalYAML reads dates written as YYYY-MM-DD, quoted or not.
func (r *RecurrenceRule) UnmarshalYAML(value *yaml.Node) error {
	var aux recurrenceYAML
	if err := value.Decode(&aux); err != nil {
		return err
	}

	r.Frequency = ParseFrequency(aux.Frequency)
	r.DayOfWeek = aux.DayOfWeek
	r.DayOfMonth = aux.DayOfMonth
	r.StartDate = time.Time{}
	r.EndDate = nil

	if aux.StartDate != "" {
		start, err := dateutil.ParseDate(aux.StartDate)
		if err != nil {
			return fmt.Errorf("start_date: %w", err)
		}
		r.StartDate = start
	}
	if aux.EndDate != "" {
		end, err := dateutil.ParseDate(aux.EndDate)
		if err != nil {
			return fmt.Errorf("end_date: %w", err)
		}
		r.EndDate = &end
	}
	return nil
}

// MarshalYAML writes dates back as YYYY-MM-DD.
func (r RecurrenceRule) MarshalYAML() (interface{}, error) {
	aux := recurrenceYAML{
		Frequency:  string(r.Frequency),
		DayOfWeek:  r.DayOfWeek,
		DayOfMonth: r.DayOfMonth,
	}
	if !r.StartDate.IsZero() {
		aux.StartDate = dateutil.FormatDate(r.StartDate)
	}
	if r.EndDate != nil {
		aux.EndDate = dateutil.FormatDate(*r.EndDate)
	}
	return aux, nil
}

// IntPtr is a convenience for building optional day fields.
func IntPtr(v int) *int { return &v }
