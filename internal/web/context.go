package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/csvdiff/internal/core"
)

// withRequestMeta adds client IP and User-Agent to the request context so
// service logs can be correlated with the caller.
func withRequestMeta(r *http.Request) context.Context {
	return core.WithRequestMeta(r.Context(), core.RequestMeta{
		ClientIP:  clientIP(r), // Already processed by TrustedRealIP
		UserAgent: r.UserAgent(),
		Source:    "http",
	})
}
