package tariff

import "log/slog"

// SlogTrace reports filter and gate activity through the given logger at
// debug level.
type SlogTrace struct {
	Logger *slog.Logger
}

// NewSlogTrace builds a trace over the default logger.
func NewSlogTrace() *SlogTrace {
	return &SlogTrace{Logger: slog.Default()}
}

// FilterApplied implements Trace.
func (t *SlogTrace) FilterApplied(component, filter string, before, after int) {
	t.Logger.Debug("Filter applied",
		"component", component, "filter", filter, "before", before, "after", after)
}

// ComponentSkipped implements Trace.
func (t *SlogTrace) ComponentSkipped(component, reason string) {
	t.Logger.Debug("Component skipped", "component", component, "reason", reason)
}
