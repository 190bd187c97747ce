package server

import (
	"encoding/json"
	"net/http"

	"feed-lab/errors"
)

// APIResponse is the uniform envelope for every JSON reply.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encoding response", "error", err)
	}
}

func (s *Server) writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	s.writeJSON(w, status, APIResponse{Success: true, Data: data})
}

// writeError maps a domain error onto its HTTP status. Internal failures
// are logged and replaced with a generic message so storage details never
// leak to callers.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.monitor.IncError()
	status := errors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
		message = "internal server error"
	}
	s.writeJSON(w, status, APIResponse{Success: false, Error: message})
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.monitor.IncError()
		s.writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "invalid request body"})
		return false
	}
	return true
}
