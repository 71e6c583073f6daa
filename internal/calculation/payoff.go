package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/rpgo/budgetcast/pkg/money"
)

// MaxPayoffMonths caps a simulation at fifty years.
const MaxPayoffMonths = 600

// DefaultPayoffStrategy applies when a plan leaves its strategy empty.
const DefaultPayoffStrategy = domain.StrategyAvalanche

type debtState struct {
	entry       domain.DebtEntry
	balance     money.Cents
	interest    money.Cents
	paid        money.Cents
	payoffMonth int
}

type payoffSimulation struct {
	plan      domain.PayoffPlan
	debts     []*debtState
	snapshots []domain.PayoffMonthSnapshot
	totalPaid money.Cents
}

// SimulatePayoff runs plan month by month until every debt reaches zero or
// MaxPayoffMonths elapse. A plan that never pays off returns its partial result
// together with a *domain.NeverPayoffError.
func SimulatePayoff(plan domain.PayoffPlan) (*domain.PayoffResult, error) {
	if plan.Strategy == "" {
		plan.Strategy = DefaultPayoffStrategy
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	plan.Debts = append([]domain.DebtEntry(nil), plan.Debts...)
	plan.StartDate = dateutil.DateOnly(plan.StartDate)

	sim := newPayoffSimulation(plan)
	for month := 1; sim.outstanding() > 0 && month <= MaxPayoffMonths; month++ {
		sim.advance(month)
	}

	result := sim.result()
	if result.Summary.Status == domain.PayoffStalled {
		return result, &domain.NeverPayoffError{
			Plan:      plan.Name,
			Months:    len(result.Snapshots),
			Remaining: sim.outstanding(),
			Snapshots: result.Snapshots,
		}
	}
	return result, nil
}

func validatePlan(plan domain.PayoffPlan) error {
	invalid := func(format string, args ...any) error {
		return &domain.InvalidPlanError{Plan: plan.Name, Reason: fmt.Sprintf(format, args...)}
	}
	if !plan.Strategy.Valid() {
		return invalid("unknown strategy %q", plan.Strategy)
	}
	if plan.MonthlyExtraPayment < 0 {
		return invalid("monthly extra payment cannot be negative")
	}
	seen := make(map[string]bool, len(plan.Debts))
	for _, d := range plan.Debts {
		switch {
		case seen[d.AccountID]:
			return invalid("debt account %q appears more than once", d.AccountID)
		case d.StartingBalance < 0:
			return invalid("debt %s: balance cannot be negative", d.Label())
		case d.MinimumPayment < 0:
			return invalid("debt %s: minimum payment cannot be negative", d.Label())
		case d.InterestRate.IsNegative():
			return invalid("debt %s: interest rate cannot be negative", d.Label())
		}
		seen[d.AccountID] = true
	}
	return nil
}

func newPayoffSimulation(plan domain.PayoffPlan) *payoffSimulation {
	sim := &payoffSimulation{plan: plan}
	for _, d := range plan.Debts {
		sim.debts = append(sim.debts, &debtState{entry: d, balance: d.StartingBalance})
	}
	return sim
}

func (s *payoffSimulation) outstanding() money.Cents {
	var total money.Cents
	for _, d := range s.debts {
		total += d.balance
	}
	return total
}

func (s *payoffSimulation) monthDate(month int) time.Time {
	if s.plan.StartDate.IsZero() {
		return time.Time{}
	}
	return dateutil.AddMonths(s.plan.StartDate, month-1)
}

// advance simulates one month: accrue interest, pay minimums, then cascade the
// extra budget down the strategy's ranking.
func (s *payoffSimulation) advance(month int) {
	snap := domain.PayoffMonthSnapshot{
		MonthIndex: month,
		Date:       s.monthDate(month),
		Debts:      make([]domain.DebtMonthState, len(s.debts)),
	}
	budget := s.plan.MonthlyExtraPayment

	for i, d := range s.debts {
		state := &snap.Debts[i]
		state.AccountID = d.entry.AccountID
		if d.balance <= 0 {
			if s.plan.RolloverMinimums {
				budget += d.entry.MinimumPayment
			}
			continue
		}
		interest := money.MonthlyInterest(d.balance, d.entry.InterestRate)
		d.balance += interest
		d.interest += interest
		state.InterestAccrued = interest
		snap.InterestAccrued += interest

		pay := money.Min(d.entry.MinimumPayment, d.balance)
		s.pay(d, state, pay)
	}

	for _, d := range rankDebts(s.plan.Strategy, s.debts) {
		if budget <= 0 {
			break
		}
		pay := money.Min(budget, d.balance)
		budget -= pay
		s.pay(d, &snap.Debts[s.indexOf(d)], pay)
	}

	for i, d := range s.debts {
		snap.Debts[i].RemainingBalance = d.balance
		if d.balance == 0 && d.payoffMonth == 0 && d.entry.StartingBalance > 0 {
			d.payoffMonth = month
		}
	}
	snap.TotalPaid = s.totalPaid
	s.snapshots = append(s.snapshots, snap)
}

func (s *payoffSimulation) pay(d *debtState, state *domain.DebtMonthState, amount money.Cents) {
	if amount <= 0 {
		return
	}
	d.balance -= amount
	d.paid += amount
	state.Payment += amount
	s.totalPaid += amount
}

func (s *payoffSimulation) indexOf(target *debtState) int {
	for i, d := range s.debts {
		if d == target {
			return i
		}
	}
	return -1
}

// rankDebts orders the debts that still carry a balance by the strategy's target
// preference. Ties beyond the strategy's keys keep input order.
func rankDebts(strategy domain.PayoffStrategy, debts []*debtState) []*debtState {
	active := make([]*debtState, 0, len(debts))
	for _, d := range debts {
		if d.balance > 0 {
			active = append(active, d)
		}
	}

	var less func(a, b *debtState) bool
	switch strategy {
	case domain.StrategySnowball:
		less = func(a, b *debtState) bool {
			if a.balance != b.balance {
				return a.balance < b.balance
			}
			return a.entry.InterestRate.GreaterThan(b.entry.InterestRate)
		}
	case domain.StrategyCustom:
		less = func(a, b *debtState) bool {
			return a.entry.Priority < b.entry.Priority
		}
	default:
		less = func(a, b *debtState) bool {
			if !a.entry.InterestRate.Equal(b.entry.InterestRate) {
				return a.entry.InterestRate.GreaterThan(b.entry.InterestRate)
			}
			return a.balance < b.balance
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return less(active[i], active[j]) })
	return active
}

func (s *payoffSimulation) result() *domain.PayoffResult {
	summary := domain.PayoffSummary{
		Status:         domain.PayoffPaid,
		MonthsToPayoff: len(s.snapshots),
		TotalPaid:      s.totalPaid,
	}
	if s.outstanding() > 0 {
		summary.Status = domain.PayoffStalled
	}
	for _, d := range s.debts {
		summary.TotalInterest += d.interest
		summary.Debts = append(summary.Debts, domain.DebtPayoff{
			AccountID:     d.entry.AccountID,
			Name:          d.entry.Name,
			PayoffMonth:   d.payoffMonth,
			TotalInterest: d.interest,
			TotalPaid:     d.paid,
		})
	}
	if summary.Status == domain.PayoffPaid && !s.plan.StartDate.IsZero() {
		payoff := s.plan.StartDate
		if n := len(s.snapshots); n > 0 {
			payoff = s.snapshots[n-1].Date
		}
		summary.PayoffDate = &payoff
	}
	return &domain.PayoffResult{
		Plan:      s.plan,
		Snapshots: s.snapshots,
		Summary:   summary,
	}
}
