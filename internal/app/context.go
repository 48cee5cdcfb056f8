package app

import "context"

// Request carries the per-dispatch caller identity and correlation data. The
// server middleware populates it from the incoming request; the CLI builds
// one by hand. It travels in the context so clients deep in the call chain
// can stamp outgoing requests without threading extra parameters.
type Request struct {
	TenantID           string
	UserID             string
	Token              string
	RequestID          string
	OriginalRequestIDs []string
	DocumentVersion    string
}

type requestKey struct{}

// WithRequest attaches the request data to the context.
func WithRequest(ctx context.Context, r Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// FromContext returns the request data, zero-valued when absent.
func FromContext(ctx context.Context) Request {
	r, _ := ctx.Value(requestKey{}).(Request)
	return r
}

// UserID returns the acting user, empty when the dispatch is system driven.
func UserID(ctx context.Context) string {
	return FromContext(ctx).UserID
}
