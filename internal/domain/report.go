package domain

import "time"

// Report is everything a formatter can render for one CLI invocation.
type Report struct {
	AsOf         time.Time            `json:"as_of"`
	ScenarioID   string               `json:"scenario_id,omitempty"`
	ScenarioName string               `json:"scenario_name,omitempty"`
	Forecasts    []AccountForecast    `json:"forecasts,omitempty"`
	Payoffs      []PayoffResult       `json:"payoffs,omitempty"`
	Comparisons  []StrategyComparison `json:"comparisons,omitempty"`
	Searches     []ExtraPaymentSearch `json:"extra_payment_searches,omitempty"`
}

// IsEmpty reports whether the report has nothing to render.
func (r *Report) IsEmpty() bool {
	return r == nil || (len(r.Forecasts) == 0 && len(r.Payoffs) == 0 &&
		len(r.Comparisons) == 0 && len(r.Searches) == 0)
}
