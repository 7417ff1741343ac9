package request

import "context"

type ctxKey uint8

const verboseKey ctxKey = iota

// WithVerbose returns a context that forces verbose logging for every request
// sent with it, regardless of the item setting
func WithVerbose(ctx context.Context) context.Context {
	return context.WithValue(ctx, verboseKey, true)
}

// IsVerbose reports whether a request should be logged verbosely
func IsVerbose(ctx context.Context, verbose bool) bool {
	if verbose {
		return true
	}
	v, _ := ctx.Value(verboseKey).(bool)
	return v
}
