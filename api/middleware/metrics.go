package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"

	"github.com/openalpha/yield-vault/metrics"
)

// Metrics records request count and latency per route template
func Metrics(c *metrics.Collector, logger log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := metrics.NewTimer()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}
			latency := timer.ElapsedMs()
			c.RecordAPIRequest(r.Method, path, strconv.Itoa(wrapped.statusCode), latency)
			logger.Debug("api request",
				"method", r.Method,
				"path", path,
				"status", wrapped.statusCode,
				"latency_ms", latency,
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

// responseWriter captures the status code written by a handler
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets WebSocket upgrades pass through the wrapper
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}
