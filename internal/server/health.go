// internal/server/health.go
package server

import (
	"context"
	"net/http"
	"sort"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.opts.Version,
	})
}

// handleReady runs every readiness check with a shared deadline.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.opts.Checks))
	for name := range s.opts.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.opts.Checks[name](ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
