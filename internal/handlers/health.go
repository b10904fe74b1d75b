// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"net/http"
	"runtime"
	"strconv"
	"time"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Uptime    string            `json:"uptime,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

var startTime = time.Now()

// Health reports liveness. The service is unavailable until a graph is loaded.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "stockgraph-api",
		Uptime:    time.Since(startTime).String(),
		Details: map[string]string{
			"go_version": runtime.Version(),
			"num_cpu":    strconv.Itoa(runtime.NumCPU()),
			"preset":     s.preset.Name,
			"sessions":   strconv.Itoa(s.sessions.Len()),
		},
	}

	status := http.StatusOK
	if g := s.Graph(); g != nil {
		response.Details["nodes"] = strconv.Itoa(len(g.Nodes))
		response.Details["links"] = strconv.Itoa(len(g.Links))
	} else {
		response.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, r, status, response)
}
