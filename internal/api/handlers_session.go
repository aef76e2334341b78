package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dgallion1/lexplain/internal/analysis"
	"github.com/dgallion1/lexplain/internal/gateway"
	"github.com/dgallion1/lexplain/internal/session"
)

const (
	pollURL           = "/api/session"
	checklistFilename = "Lexplain-Checklist.txt"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orchestrator.Snapshot())
}

// handleUpload uploads the file and starts its analysis in the background.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	snap, err := s.orchestrator.Upload(r.Context(), header.Filename, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.orchestrator.StartAnalysis(snap.DocumentRef, snap.MimeType)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"session":  snap,
		"poll_url": pollURL,
	})
}

// handleAnalyze retries analysis of the current document.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	snap := s.orchestrator.Snapshot()
	if snap.DocumentRef == "" {
		s.writeError(w, session.ErrNoDocument)
		return
	}
	s.orchestrator.StartAnalysis(snap.DocumentRef, snap.MimeType)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"session_id": snap.ID,
		"poll_url":   pollURL,
	})
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.orchestrator.SetLanguage(r.Context(), req.Language); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.orchestrator.Snapshot())
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	data, err := s.orchestrator.ExportChecklist(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", checklistFilename))
	w.Write(data)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	ans, err := s.orchestrator.Ask(r.Context(), req.Question)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

// statusFor maps session and gateway errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrUnsupportedFile),
		errors.Is(err, session.ErrEmptyFile),
		errors.Is(err, session.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoDocument),
		errors.Is(err, session.ErrNotAnalyzed),
		errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrSuperseded),
		errors.Is(err, session.ErrIllegalTransition):
		return http.StatusConflict
	}
	var ge *gateway.Error
	if errors.As(err, &ge) || errors.Is(err, analysis.ErrStructural) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= 500 {
		s.log.Error("request failed", "status", code, "error", err)
	}
	jsonError(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
