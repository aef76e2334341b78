package api

import (
	"net/http"
)

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.orchestrator.Stats()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleGatewayStats(w http.ResponseWriter, r *http.Request) {
	if s.latency == nil {
		jsonError(w, "gateway stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"api_url": s.cfg.APIURL,
		"stats":   s.latency.Snapshot(),
	})
}
