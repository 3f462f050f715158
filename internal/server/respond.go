package server

import (
	"encoding/json"
	"net/http"

	"selam/internal/content"
)

func (s *Service) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"message": message})
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	s.respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// sourceTag converts a coordinator source into the response tag: present
// only when the local store served the request.
func sourceTag(source content.Source) string {
	if source == content.SourceLocal {
		return string(content.SourceLocal)
	}
	return ""
}
