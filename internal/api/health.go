package api

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"medcost-service/internal/handlers"
	"medcost-service/pkg/registry"
)

// Pinger is a backing store that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

var fallbackPaths = []string{
	"/api/predict",
	"/api/chat",
	"/api/profile-disease",
	"/api/statistics",
	"/api/visualizations",
	"/api/feature-importance",
	"/api/auth/signup",
	"/api/auth/login",
	"/api/auth/me",
	"/api/users/predictions",
}

type indexResponse struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

func indexHandler(reg *registry.EndpointRegistry) http.HandlerFunc {
	resp := indexResponse{Message: "Cost Prediction Treatment API", Version: "1.0", Endpoints: fallbackPaths}
	if reg != nil {
		if reg.Message != "" {
			resp.Message = reg.Message
		}
		if reg.Version != "" {
			resp.Version = reg.Version
		}
		var paths []string
		for _, p := range reg.Paths() {
			if strings.HasPrefix(p, "/api/") {
				paths = append(paths, p)
			}
		}
		if len(paths) > 0 {
			resp.Endpoints = paths
		}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, resp)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// readyHandler pings every check. Any failure makes the service not ready.
func readyHandler(checks map[string]Pinger, timeout time.Duration) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := readyResponse{Status: "ready", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name].Ping(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "not ready"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		handlers.WriteJSON(w, status, resp)
	}
}
