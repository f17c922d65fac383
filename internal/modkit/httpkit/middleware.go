package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"compsync/internal/platform/metrics"
	phttp "compsync/internal/platform/net/http"
	"compsync/internal/platform/net/middleware"
)

// CommonStack returns a baseline middleware slice for the versioned API
// Timeout is left to callers since uploads outlive a JSON call
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow:    2 * time.Second,
			Observe: metrics.ObserveHTTP,
		}),

		// cross-origin (tweak config in main if needed)
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
	}
}

// Org wires the org header middleware to the platform error writer
func Org() func(http.Handler) http.Handler {
	return middleware.Org(phttp.RespondError)
}
