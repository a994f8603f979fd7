package delegation

import "time"

// WithPollInterval shortens the poll interval for tests.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = d
	}
}

// WithWaitBudget shortens the wait budget for tests.
func WithWaitBudget(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.waitBudget = d
	}
}
