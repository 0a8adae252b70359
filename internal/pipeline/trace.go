package pipeline

import "go.uber.org/zap"

// TraceSink receives human-readable progress lines from a pipeline run. It
// is purely observational and must not affect control flow. A nil sink is
// valid.
type TraceSink func(message string)

// tracer wraps a sink so every line is also logged. Progress lines go to the
// sink exactly as the caller will display them.
func tracer(sink TraceSink) TraceSink {
	return func(message string) {
		zap.L().Info(message)
		if sink != nil {
			sink(message)
		}
	}
}
