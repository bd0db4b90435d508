package platform

import "context"

type gestureKey struct{}

// WithUserGesture marks ctx as running on behalf of a direct user action
// (a key press, a button tap, a CLI command). Permission prompts are only
// allowed inside such a context.
func WithUserGesture(ctx context.Context) context.Context {
	return context.WithValue(ctx, gestureKey{}, true)
}

// IsUserGesture reports whether ctx was marked by WithUserGesture.
func IsUserGesture(ctx context.Context) bool {
	marked, _ := ctx.Value(gestureKey{}).(bool)

	return marked
}
