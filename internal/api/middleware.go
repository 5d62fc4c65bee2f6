package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"medcost-service/internal/common/logger"
	"medcost-service/internal/common/metrics"
)

// RequestRecorder receives one observation per served request.
type RequestRecorder interface {
	RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// routePattern is the matched chi pattern, or "unmatched" for 404s so that
// arbitrary paths do not create new label values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// instrument logs each request and records it in Prometheus and, when set,
// the OpenTelemetry recorder.
func instrument(log logger.Logger, recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			metrics.HTTPRequestsActive.Inc()
			defer metrics.HTTPRequestsActive.Dec()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			elapsed := time.Since(start)

			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
			if recorder != nil {
				recorder.RecordRequest(r.Context(), r.Method, route, status, elapsed)
			}

			fields := map[string]interface{}{
				"requestId":  middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      route,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"durationMs": elapsed.Milliseconds(),
				"remoteAddr": r.RemoteAddr,
			}
			if status >= http.StatusInternalServerError {
				log.Error("Request served", fields)
				return
			}
			log.Info("Request served", fields)
		})
	}
}
