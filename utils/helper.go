package utils

import "context"

// ContextKey is the shared type for context keys in this codebase.
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	ContextKeyRunId = ContextKey("RunId")
)

func WithRunId(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunId, runID)
}

func GetRunIdFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyRunId).(string)
	return v, ok
}

func DereferencePtr[T any](ptr *T, defaultValue T) T {
	if ptr == nil {
		return defaultValue
	}
	return *ptr
}
