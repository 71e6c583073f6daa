package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/money"
	"github.com/stretchr/testify/suite"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: make(map[string][]string)}
}

func (l *recordingLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[level] = append(l.lines[level], fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.record("debug", format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.record("info", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.record("warn", format, args...) }

// countingCache wraps MemoryCache and counts hits.
type countingCache struct {
	*MemoryCache
	hits int
}

func (c *countingCache) Get(accountID, key string) (*domain.AccountForecast, bool, error) {
	f, ok, err := c.MemoryCache.Get(accountID, key)
	if ok {
		c.hits++
	}
	return f, ok, err
}

type EngineSuite struct {
	suite.Suite
	engine *CalculationEngine
	logger *recordingLogger
	cache  *countingCache
	ctx    context.Context
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewCalculationEngine()
	s.logger = newRecordingLogger()
	s.cache = &countingCache{MemoryCache: NewMemoryCache()}
	s.engine.SetLogger(s.logger)
	s.engine.SetCache(s.cache)
	s.engine.Clock = FixedClock{Date: d(2025, 1, 1)}
	s.ctx = context.Background()
}

func (s *EngineSuite) sampleConfiguration() *domain.Configuration {
	req := householdRequest()
	return &domain.Configuration{
		AsOf:      d(2025, 1, 1),
		Accounts:  req.Accounts,
		Templates: req.Templates,
		Scenarios: []domain.Scenario{{
			ID:   "car",
			Name: "Car Repair",
			Adjustments: []domain.ScenarioAdjustment{
				{ID: "repair", ScenarioID: "car", AccountID: "checking", Type: domain.AdjustmentOneTimeExpense, Amount: -300000, Recurrence: domain.RecurrenceRule{StartDate: d(2025, 2, 10)}},
			},
		}},
		PayoffPlans: []domain.PayoffPlan{
			{
				Name:                "cards",
				Strategy:            domain.StrategyAvalanche,
				MonthlyExtraPayment: 20000,
				FundingAccountID:    "checking",
				Debts: []domain.DebtEntry{
					debt("small-high", 100000, "20", 5000),
					debt("large-low", 200000, "10", 5000),
				},
			},
		},
	}
}

func (s *EngineSuite) TestSetLoggerNil() {
	s.engine.SetLogger(nil)
	s.IsType(NopLogger{}, s.engine.Logger)
}

func (s *EngineSuite) TestRunForecastUsesCache() {
	req := householdRequest()

	first, err := s.engine.RunForecast(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(0, s.cache.hits)

	second, err := s.engine.RunForecast(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(2, s.cache.hits)
	s.Equal(first, second)

	s.Require().NoError(s.engine.InvalidateAccount("checking"))
	_, err = s.engine.RunForecast(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(3, s.cache.hits, "only savings should hit after invalidating checking")
}

func (s *EngineSuite) TestCacheKeyChangesWithInputs() {
	req := householdRequest()
	window, err := req.ResolvedWindow()
	s.Require().NoError(err)
	acct := req.Accounts[0]

	base, err := ForecastCacheKey(req, window, acct)
	s.Require().NoError(err)
	again, err := ForecastCacheKey(req, window, acct)
	s.Require().NoError(err)
	s.Equal(base, again)

	req.Templates[0].Amount = -160000
	changed, err := ForecastCacheKey(req, window, acct)
	s.Require().NoError(err)
	s.NotEqual(base, changed)

	// templates of other accounts do not affect the key
	other := householdRequest()
	other.Templates = append(other.Templates, domain.RecurringTemplate{ID: "x", AccountID: "savings", Amount: 1})
	unrelated, err := ForecastCacheKey(other, window, acct)
	s.Require().NoError(err)
	s.Equal(base, unrelated)

	// only the calendar date of as_of is part of the key
	later := householdRequest()
	later.AsOf = later.AsOf.Add(9*time.Hour + 30*time.Minute)
	sameDay, err := ForecastCacheKey(later, window, acct)
	s.Require().NoError(err)
	s.Equal(base, sameDay)

	later.AsOf = later.AsOf.AddDate(0, 0, 1)
	nextDay, err := ForecastCacheKey(later, window, acct)
	s.Require().NoError(err)
	s.NotEqual(base, nextDay)
}

func (s *EngineSuite) TestZeroValueMemoryCache() {
	var cache MemoryCache

	_, ok, err := cache.Get("checking", "k")
	s.Require().NoError(err)
	s.False(ok)

	forecast := &domain.AccountForecast{Account: domain.Account{ID: "checking"}}
	s.Require().NoError(cache.Put("checking", "k", forecast))
	got, ok, err := cache.Get("checking", "k")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("checking", got.Account.ID)

	s.Require().NoError(cache.Invalidate("checking"))
	_, ok, err = cache.Get("checking", "k")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *EngineSuite) TestRunForecastLogsNegativeBalance() {
	req := householdRequest()
	req.Accounts[0].CurrentBalance = 0

	_, err := s.engine.RunForecast(s.ctx, req)
	s.Require().NoError(err)
	s.Require().Len(s.logger.lines["info"], 1)
	s.Contains(s.logger.lines["info"][0], "checking")
	s.Contains(s.logger.lines["info"][0], "-$1,500.00")
}

func (s *EngineSuite) TestRunForecastCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.engine.RunForecast(ctx, householdRequest())
	s.True(errors.Is(err, context.Canceled))

	_, err = s.engine.RunPayoff(ctx, twoCardPlan(domain.StrategyAvalanche))
	s.True(errors.Is(err, context.Canceled))
}

func (s *EngineSuite) TestRunPayoffStalledWarns() {
	plan := domain.PayoffPlan{
		Name:     "stuck",
		Strategy: domain.StrategyAvalanche,
		Debts:    []domain.DebtEntry{debt("loan", 1000000, "24", 1000)},
	}
	result, err := s.engine.RunPayoff(s.ctx, plan)
	var never *domain.NeverPayoffError
	s.Require().True(errors.As(err, &never))
	s.Require().NotNil(result)
	s.Equal(domain.PayoffStalled, result.Summary.Status)
	s.Require().Len(s.logger.lines["warn"], 1)
	s.Contains(s.logger.lines["warn"][0], `plan "stuck" stalled`)
}

func (s *EngineSuite) TestBuildReportForecastWithScenario() {
	cfg := s.sampleConfiguration()
	report, err := s.engine.BuildReport(s.ctx, cfg, ReportOptions{
		Window:      domain.Window{Start: d(2025, 1, 1), End: d(2025, 3, 31)},
		ScenarioKey: "car repair",
		Forecast:    true,
	})
	s.Require().NoError(err)
	s.Equal("car", report.ScenarioID)
	s.Equal("Car Repair", report.ScenarioName)
	s.Equal(d(2025, 1, 1), report.AsOf)
	s.Require().Len(report.Forecasts, 2)
	s.Equal(money.Cents(100000), report.Forecasts[0].EndingBalance)
	s.Empty(report.Payoffs)
}

func (s *EngineSuite) TestBuildReportPayoffs() {
	cfg := s.sampleConfiguration()
	report, err := s.engine.BuildReport(s.ctx, cfg, ReportOptions{
		Payoff:       true,
		Compare:      true,
		TargetMonths: 6,
	})
	s.Require().NoError(err)
	s.Empty(report.Forecasts)
	s.Require().Len(report.Payoffs, 1)
	s.Require().Len(report.Comparisons, 1)
	s.Require().Len(report.Searches, 1)

	payoff := report.Payoffs[0]
	s.Equal(domain.PayoffPaid, payoff.Summary.Status)
	s.Require().NotNil(payoff.Summary.PayoffDate)
	s.Equal(d(2025, 1, 1), payoff.Plan.StartDate, "start date defaults to as-of")
	s.True(report.Searches[0].Converged)
	s.LessOrEqual(report.Searches[0].Result.Summary.MonthsToPayoff, 6)
}

func (s *EngineSuite) TestBuildReportPaydownFeedsForecast() {
	cfg := s.sampleConfiguration()
	without, err := s.engine.BuildReport(s.ctx, cfg, ReportOptions{
		Window:   domain.Window{Start: d(2025, 1, 1), End: d(2025, 3, 31)},
		Forecast: true,
	})
	s.Require().NoError(err)

	with, err := s.engine.BuildReport(s.ctx, cfg, ReportOptions{
		Window:      domain.Window{Start: d(2025, 1, 1), End: d(2025, 3, 31)},
		Forecast:    true,
		PaydownPlan: "cards",
	})
	s.Require().NoError(err)
	s.Less(with.Forecasts[0].EndingBalance, without.Forecasts[0].EndingBalance)
	s.Equal(without.Forecasts[1].EndingBalance, with.Forecasts[1].EndingBalance)
}

func (s *EngineSuite) TestBuildReportLookupErrors() {
	cfg := s.sampleConfiguration()
	_, err := s.engine.BuildReport(s.ctx, cfg, ReportOptions{ScenarioKey: "missing", Forecast: true})
	s.ErrorContains(err, `scenario "missing" not found`)

	_, err = s.engine.BuildReport(s.ctx, cfg, ReportOptions{Plans: []string{"nope"}, Payoff: true})
	s.ErrorContains(err, `payoff plan "nope" not found`)

	_, err = s.engine.BuildReport(s.ctx, cfg, ReportOptions{PaydownPlan: "nope", Forecast: true})
	s.ErrorContains(err, `payoff plan "nope" not found`)
}

func (s *EngineSuite) TestResolveAsOf() {
	clock := FixedClock{Date: d(2030, 6, 1)}
	s.Equal(d(2025, 2, 3), ResolveAsOf(clock, d(2025, 2, 3), d(2024, 1, 1)))
	s.Equal(d(2020, 1, 1), ResolveAsOf(clock, domain.Window{}.Start, d(2020, 1, 1)))
	s.Equal(d(2030, 6, 1), ResolveAsOf(clock))
	s.Equal(d(2030, 6, 1), ResolveAsOf(clock, domain.Window{}.End))
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}
