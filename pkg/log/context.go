package log

import "context"

type ctxKey int

const runIDKey ctxKey = iota

// ContextWithRunID attaches a per-invocation run ID to the context so every
// log line of a dump run can be correlated.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run ID attached to ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}
