package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	localeKey    contextKey = "locale"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithLocale annotates context with the request locale code (e.g. "pt", "en").
func WithLocale(ctx context.Context, code string) context.Context {
	if code == "" {
		return ctx
	}
	return context.WithValue(ctx, localeKey, code)
}

// LocaleFromContext returns the request locale code if present.
func LocaleFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(localeKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
