package calculation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
)

// CalculationEngine orchestrates forecasts and payoff simulations
type CalculationEngine struct {
	Logger Logger
	Cache  ForecastCache // optional
	Clock  Clock
	Debug  bool // log every projected transaction
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Logger: NopLogger{},
		Clock:  SystemClock{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// SetCache attaches a forecast cache; nil disables caching.
func (ce *CalculationEngine) SetCache(c ForecastCache) {
	ce.Cache = c
}

// RunForecast assembles a forecast per account, consulting the cache when one is set.
func (ce *CalculationEngine) RunForecast(ctx context.Context, req ForecastRequest) ([]domain.AccountForecast, error) {
	window, err := req.ResolvedWindow()
	if err != nil {
		return nil, err
	}
	ce.Logger.Debugf("forecast window %s..%s for %d accounts", dateutil.FormatDate(window.Start), dateutil.FormatDate(window.End), len(req.Accounts))

	forecasts := make([]domain.AccountForecast, 0, len(req.Accounts))
	for _, acct := range req.Accounts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := ce.forecastAccount(req, acct, window)
		if err != nil {
			return nil, fmt.Errorf("forecast for account %q: %w", acct.ID, err)
		}
		if f.Truncated {
			ce.Logger.Warnf("account %s: occurrence generation truncated at %d iterations", acct.ID, MaxOccurrenceIterations)
		}
		if f.GoesNegative() {
			ce.Logger.Infof("account %s: balance falls to %s on %s", acct.ID, f.LowestBalance.Format(), dateutil.FormatDate(f.LowestBalanceDate))
		}
		if ce.Debug {
			for _, e := range f.Entries {
				ce.Logger.Debugf("%s %s %s %s -> %s", acct.ID, dateutil.FormatDate(e.Transaction.Date), e.Transaction.Description, e.Transaction.Amount, e.Balance)
			}
		}
		forecasts = append(forecasts, *f)
	}
	return forecasts, nil
}

func (ce *CalculationEngine) forecastAccount(req ForecastRequest, acct domain.Account, window domain.Window) (*domain.AccountForecast, error) {
	if ce.Cache == nil {
		return assembleAccount(req, acct, window)
	}

	key, err := ForecastCacheKey(req, window, acct)
	if err != nil {
		return nil, fmt.Errorf("cache key: %w", err)
	}
	cached, ok, err := ce.Cache.Get(acct.ID, key)
	if err != nil {
		ce.Logger.Warnf("forecast cache read for %s failed: %v", acct.ID, err)
	} else if ok {
		ce.Logger.Debugf("forecast cache hit for %s", acct.ID)
		return cached, nil
	}

	f, err := assembleAccount(req, acct, window)
	if err != nil {
		return nil, err
	}
	if err := ce.Cache.Put(acct.ID, key, f); err != nil {
		ce.Logger.Warnf("forecast cache write for %s failed: %v", acct.ID, err)
	}
	return f, nil
}

// InvalidateAccount drops every cached forecast of accountID.
func (ce *CalculationEngine) InvalidateAccount(accountID string) error {
	if ce.Cache == nil {
		return nil
	}
	return ce.Cache.Invalidate(accountID)
}

// RunPayoff simulates a payoff plan. A stalled plan is returned together with its error.
func (ce *CalculationEngine) RunPayoff(ctx context.Context, plan domain.PayoffPlan) (*domain.PayoffResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := SimulatePayoff(plan)
	var never *domain.NeverPayoffError
	switch {
	case errors.As(err, &never):
		ce.Logger.Warnf("plan %q stalled after %d months with %s outstanding", plan.Name, never.Months, never.Remaining.Format())
	case err != nil:
		return nil, err
	default:
		ce.Logger.Infof("plan %q paid off in %d months, interest %s", plan.Name, result.Summary.MonthsToPayoff, result.Summary.TotalInterest.Format())
	}
	return result, err
}

// RunComparison compares payoff strategies for plan.
func (ce *CalculationEngine) RunComparison(ctx context.Context, plan domain.PayoffPlan) (*domain.StrategyComparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmp, err := CompareStrategies(plan)
	if err != nil {
		return nil, err
	}
	ce.Logger.Debugf("plan %q: best strategy %s saves %s over %s", plan.Name, cmp.Best, cmp.InterestSaved.Format(), cmp.Worst)
	return cmp, nil
}

// RunExtraPaymentSearch finds the extra payment needed to finish plan within targetMonths.
func (ce *CalculationEngine) RunExtraPaymentSearch(ctx context.Context, plan domain.PayoffPlan, targetMonths int) (*domain.ExtraPaymentSearch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	search, err := FindExtraPaymentForTarget(plan, targetMonths)
	if err != nil {
		return nil, err
	}
	if !search.Converged {
		ce.Logger.Warnf("plan %q: no extra payment reaches %d months within %d iterations", plan.Name, targetMonths, search.Iterations)
	}
	return search, nil
}

// ReportOptions selects what BuildReport computes from a configuration.
type ReportOptions struct {
	AsOf         time.Time // overrides the document's as_of
	Window       domain.Window
	ScenarioKey  string   // scenario id or name; empty = baseline
	Forecast     bool     // include account forecasts
	Plans        []string // payoff plan names; empty = every plan
	Payoff       bool     // include payoff simulations
	Compare      bool
	TargetMonths int    // > 0 runs the extra-payment search
	PaydownPlan  string // feed this plan's payments into the forecast
}

// BuildReport runs everything opts asks for against cfg.
func (ce *CalculationEngine) BuildReport(ctx context.Context, cfg *domain.Configuration, opts ReportOptions) (*domain.Report, error) {
	asOf := ResolveAsOf(ce.Clock, opts.AsOf, cfg.AsOf)
	report := &domain.Report{AsOf: asOf}

	var scenario *domain.Scenario
	if opts.ScenarioKey != "" {
		sc, ok := cfg.Scenario(opts.ScenarioKey)
		if !ok {
			return nil, fmt.Errorf("scenario %q not found", opts.ScenarioKey)
		}
		scenario = sc
		report.ScenarioID, report.ScenarioName = sc.ID, sc.Name
	}

	plans, err := selectPlans(cfg, opts.Plans)
	if err != nil {
		return nil, err
	}

	var extra []domain.ProjectedTransaction
	if opts.PaydownPlan != "" {
		plan, ok := cfg.PayoffPlan(opts.PaydownPlan)
		if !ok {
			return nil, fmt.Errorf("payoff plan %q not found", opts.PaydownPlan)
		}
		p := withStartDate(*plan, asOf)
		result, err := ce.RunPayoff(ctx, p)
		var never *domain.NeverPayoffError
		if err != nil && !errors.As(err, &never) {
			return nil, fmt.Errorf("payoff plan %q: %w", p.Name, err)
		}
		extra = PaydownTransactions(result, p.FundingAccountID)
	}

	if opts.Forecast {
		forecasts, err := ce.RunForecast(ctx, ForecastRequest{
			AsOf:      asOf,
			Window:    opts.Window,
			Accounts:  cfg.Accounts,
			Templates: cfg.Templates,
			Scenario:  scenario,
			Extra:     extra,
		})
		if err != nil {
			return nil, err
		}
		report.Forecasts = forecasts
	}

	if opts.Payoff || opts.Compare || opts.TargetMonths > 0 {
		for _, plan := range plans {
			p := withStartDate(plan, asOf)
			if opts.Payoff {
				result, err := ce.RunPayoff(ctx, p)
				var never *domain.NeverPayoffError
				if err != nil && !errors.As(err, &never) {
					return nil, fmt.Errorf("payoff plan %q: %w", p.Name, err)
				}
				report.Payoffs = append(report.Payoffs, *result)
			}
			if opts.Compare {
				cmp, err := ce.RunComparison(ctx, p)
				if err != nil {
					return nil, fmt.Errorf("payoff plan %q: %w", p.Name, err)
				}
				report.Comparisons = append(report.Comparisons, *cmp)
			}
			if opts.TargetMonths > 0 {
				search, err := ce.RunExtraPaymentSearch(ctx, p, opts.TargetMonths)
				if err != nil {
					return nil, fmt.Errorf("payoff plan %q: %w", p.Name, err)
				}
				report.Searches = append(report.Searches, *search)
			}
		}
	}
	return report, nil
}

func selectPlans(cfg *domain.Configuration, names []string) ([]domain.PayoffPlan, error) {
	if len(names) == 0 {
		return cfg.PayoffPlans, nil
	}
	plans := make([]domain.PayoffPlan, 0, len(names))
	for _, name := range names {
		plan, ok := cfg.PayoffPlan(name)
		if !ok {
			return nil, fmt.Errorf("payoff plan %q not found", name)
		}
		plans = append(plans, *plan)
	}
	return plans, nil
}

func withStartDate(plan domain.PayoffPlan, asOf time.Time) domain.PayoffPlan {
	if plan.StartDate.IsZero() {
		plan.StartDate = asOf
	}
	return plan
}
