package core

import "context"

type contextKey string

const ctxKeyRequestMeta contextKey = "request_meta"

// RequestMeta describes who asked for a comparison. It is only used to
// enrich log entries.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Source    string // "http" or "cli"
}

// WithRequestMeta attaches m to ctx.
func WithRequestMeta(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, ctxKeyRequestMeta, m)
}

// RequestMetaFrom returns the RequestMeta stored in ctx, if any.
func RequestMetaFrom(ctx context.Context) (RequestMeta, bool) {
	m, ok := ctx.Value(ctxKeyRequestMeta).(RequestMeta)
	return m, ok
}

// logArgs renders the metadata as slog key/value pairs, skipping empty values.
func (m RequestMeta) logArgs() []any {
	var args []any
	if m.Source != "" {
		args = append(args, "source", m.Source)
	}
	if m.ClientIP != "" {
		args = append(args, "client_ip", m.ClientIP)
	}
	if m.UserAgent != "" {
		args = append(args, "user_agent", m.UserAgent)
	}
	return args
}
