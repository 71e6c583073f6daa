package calculation

import "go.uber.org/zap"

// Logger is the subset of *zap.SugaredLogger the engine writes to. Forecast and
// payoff runs log at debug for per-row detail, info for notable balances and
// warn for truncation, stalls and cache failures.
type Logger interface {
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
}

var _ Logger = (*zap.SugaredLogger)(nil)

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
