package handler

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Environment   string `json:"environment"`
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.startedAt).Truncate(time.Second)

	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Environment:   s.env,
		Uptime:        uptime.String(),
		UptimeSeconds: int64(uptime / time.Second),
	})
}
