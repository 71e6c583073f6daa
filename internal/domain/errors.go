package domain

import (
	"fmt"
	"time"

	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/rpgo/budgetcast/pkg/money"
)

// InvalidRecurrenceError reports a malformed recurrence rule.
type InvalidRecurrenceError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidRecurrenceError) Error() string {
	if e.Field == "day_of_month" || e.Field == "day_of_week" {
		return fmt.Sprintf("invalid recurrence: %s %d %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid recurrence: %s %s", e.Field, e.Reason)
}

// EmptyWindowError reports a window whose end precedes its start.
type EmptyWindowError struct {
	Start time.Time
	End   time.Time
}

func (e *EmptyWindowError) Error() string {
	return fmt.Sprintf("empty window: end %s precedes start %s",
		dateutil.FormatDate(e.End), dateutil.FormatDate(e.Start))
}

// NeverPayoffError reports a plan that did not reach zero within the month cap.
// Snapshots holds the partial timeline for diagnostics.
type NeverPayoffError struct {
	Plan      string
	Months    int
	Remaining money.Cents
	Snapshots []PayoffMonthSnapshot
}

func (e *NeverPayoffError) Error() string {
	return fmt.Sprintf("plan %q not paid off after %d months: %s remaining",
		e.Plan, e.Months, e.Remaining.Format())
}

// InvalidAdjustmentError reports a scenario adjustment the engine cannot apply.
type InvalidAdjustmentError struct {
	AdjustmentID string
	Type         AdjustmentType
	Reason       string
}

func (e *InvalidAdjustmentError) Error() string {
	return fmt.Sprintf("invalid adjustment %q (%s): %s", e.AdjustmentID, e.Type, e.Reason)
}

// InvalidPlanError reports a payoff plan with invalid inputs.
type InvalidPlanError struct {
	Plan   string
	Reason string
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("invalid payoff plan %q: %s", e.Plan, e.Reason)
}
