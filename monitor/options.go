package monitor

import "go.uber.org/zap"

// Option configures a Monitor created with New.
type Option func(*Monitor)

// WithLogger sets the logger used for diagnostics. A nil logger disables
// logging, which is also the default.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// WithName names the monitor in errors, logs and metrics.
func WithName(name string) Option {
	return func(m *Monitor) {
		m.name = name
	}
}

// WithOwnerStacks records where the current owner acquired the monitor, so
// that ownership violations can report it. Costs a stack capture per
// outermost acquisition.
func WithOwnerStacks(enabled bool) Option {
	return func(m *Monitor) {
		m.trackStacks = enabled
	}
}
