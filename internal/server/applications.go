package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"selam/internal/content"
	"selam/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filter := content.Filter{}
	if appType := r.URL.Query().Get("type"); appType != "" {
		filter["type"] = appType
	}

	apps, source, err := s.applications.List(r.Context(), filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list applications")
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}

	s.respondJSON(w, http.StatusOK, struct {
		Applications []*types.Application `json:"applications"`
		Source       string               `json:"source,omitempty"`
	}{Applications: apps, Source: sourceTag(source)})
}

func (s *Service) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	app, source, err := s.applications.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Application not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch application")
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch application")
		return
	}

	s.respondJSON(w, http.StatusOK, struct {
		Application *types.Application `json:"application"`
		Source      string             `json:"source,omitempty"`
	}{Application: app, Source: sourceTag(source)})
}

func (s *Service) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		Type            string `json:"type"`
		Interest        string `json:"interest"`
		Skills          string `json:"skills"`
		Organization    string `json:"organization"`
		PartnershipType string `json:"partnershipType"`
		StoryType       string `json:"storyType"`
		Message         string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if msg := validateApplicationInput(req.Name, req.Email, req.Type); msg != "" {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	app := &types.Application{
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		Type:            req.Type,
		Interest:        req.Interest,
		Skills:          req.Skills,
		Organization:    req.Organization,
		PartnershipType: req.PartnershipType,
		StoryType:       req.StoryType,
		Message:         req.Message,
		Status:          types.StatusPending,
	}

	source, err := s.applications.Save(r.Context(), app)
	if err != nil {
		s.logger.WithError(err).Error("failed to save application")
		s.respondError(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	s.notifyAdmin(r.Context(), app)

	s.respondJSON(w, http.StatusCreated, struct {
		Message     string             `json:"message"`
		Application *types.Application `json:"application"`
		Source      string             `json:"source,omitempty"`
	}{Message: "Application submitted successfully", Application: app, Source: sourceTag(source)})
}

func (s *Service) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	var req struct {
		Name            *string `json:"name"`
		Email           *string `json:"email"`
		Phone           *string `json:"phone"`
		Interest        *string `json:"interest"`
		Skills          *string `json:"skills"`
		Organization    *string `json:"organization"`
		PartnershipType *string `json:"partnershipType"`
		StoryType       *string `json:"storyType"`
		Message         *string `json:"message"`
		Status          *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Status != nil && !types.ValidApplicationStatus(*req.Status) {
		s.respondError(w, http.StatusBadRequest, "Invalid application status")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid email address")
			return
		}
	}

	patch := types.ApplicationPatch{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Interest:        req.Interest,
		Skills:          req.Skills,
		Organization:    req.Organization,
		PartnershipType: req.PartnershipType,
		StoryType:       req.StoryType,
		Message:         req.Message,
		Status:          req.Status,
	}

	app, source, err := s.applications.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Application not found")
			return
		}
		s.logger.WithError(err).Error("failed to update application")
		s.respondError(w, http.StatusInternalServerError, "Failed to update application")
		return
	}

	s.respondJSON(w, http.StatusOK, struct {
		Message     string             `json:"message"`
		Application *types.Application `json:"application"`
		Source      string             `json:"source,omitempty"`
	}{Message: "Application updated successfully", Application: app, Source: sourceTag(source)})
}

func (s *Service) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	if _, err := s.applications.Delete(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Application not found")
			return
		}
		s.logger.WithError(err).Error("failed to delete application")
		s.respondError(w, http.StatusInternalServerError, "Failed to delete application")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Application deleted successfully"})
}

// notifyAdmin sends the new-application email. Failures are logged only;
// the submission already committed.
func (s *Service) notifyAdmin(ctx context.Context, app *types.Application) {
	if s.notifier == nil || !s.notifier.Configured() {
		s.logger.Debug("SMTP not configured, skipping email notification")
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	if err := s.notifier.NotifyApplication(sendCtx, app); err != nil {
		s.logger.WithError(err).Warn("failed to send application notification")
	}
}

func validateApplicationInput(name, email, appType string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}

	if strings.TrimSpace(email) == "" {
		return "email is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Invalid email address"
	}

	if appType == "" {
		return "type is required"
	}
	if !types.ValidApplicationType(appType) {
		return "Invalid application type"
	}

	return ""
}
