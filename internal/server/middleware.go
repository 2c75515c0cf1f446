// internal/server/middleware.go
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/metrics"
	"gigdial/internal/common/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const requestIDHeader = "X-Request-ID"

type middleware func(http.Handler) http.Handler

// chain applies mws so that the first one is outermost.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func recoverer(log logger.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.FromContext(r.Context(), log).Error("panic serving request", map[string]interface{}{
						"panic": fmt.Sprint(rec),
					})
					apperrors.WriteHTTPError(w, fmt.Errorf("panic: %v", rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger assigns a request id and attaches a request-scoped logger.
func requestLogger(log logger.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			scoped := log.WithFields(map[string]interface{}{
				"requestId": id,
				"method":    r.Method,
				"path":      r.URL.Path,
			})
			next.ServeHTTP(w, r.WithContext(logger.IntoContext(r.Context(), scoped)))
		})
	}
}

// handle registers h under pattern with per-route metrics and a span.
func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(pattern, h))
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := observability.StartSpan(r.Context(), route,
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w}
		next(rec, r.WithContext(ctx))
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		elapsed := time.Since(start)
		status := strconv.Itoa(rec.status)
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		outcome := "success"
		if rec.status >= 500 {
			outcome = "error"
		}
		s.opts.Observability.RecordProcessed(ctx, route, outcome)
		s.opts.Observability.RecordDuration(ctx, route, elapsed, outcome)
		span.SetAttributes(attribute.Int("http.status_code", rec.status))

		logger.FromContext(ctx, s.logger).Debug("request served", map[string]interface{}{
			"status":     rec.status,
			"durationMs": elapsed.Milliseconds(),
		})
	})
}
