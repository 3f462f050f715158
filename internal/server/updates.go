package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"selam/internal/content"
	"selam/pkg/types"

	"github.com/alexedwards/flow"
)

const (
	maxImageSize = 5 << 20  // 5MB
	maxVideoSize = 50 << 20 // 50MB
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
	"image/avif": {},
}

var allowedVideoTypes = map[string]struct{}{
	"video/mp4":        {},
	"video/quicktime":  {},
	"video/webm":       {},
	"video/x-msvideo":  {},
	"video/x-matroska": {},
}

var allowedVideoExtensions = []string{".mp4", ".mov", ".webm", ".avi", ".mkv"}

func (s *Service) handleListUpdates(w http.ResponseWriter, r *http.Request) {
	updates, source, err := s.updates.List(r.Context(), nil)
	if err != nil {
		s.logger.WithError(err).Error("failed to list updates")
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch updates")
		return
	}

	s.respondJSON(w, http.StatusOK, struct {
		Updates []*types.Update `json:"updates"`
		Source  string          `json:"source,omitempty"`
	}{Updates: updates, Source: sourceTag(source)})
}

func (s *Service) handleGetUpdate(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	update, source, err := s.updates.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Update not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch update")
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch update")
		return
	}

	s.respondJSON(w, http.StatusOK, struct {
		Update *types.Update `json:"update"`
		Source string        `json:"source,omitempty"`
	}{Update: update, Source: sourceTag(source)})
}

func (s *Service) handleCreateUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title            string `json:"title"`
		Description      string `json:"description"`
		MediaType        string `json:"mediaType"`
		MediaURL         string `json:"mediaUrl"`
		UploadedMediaURL string `json:"uploadedMediaUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		s.respondError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	if req.MediaType == "" {
		req.MediaType = types.MediaTypeImage
	}
	if !types.ValidMediaType(req.MediaType) {
		s.respondError(w, http.StatusBadRequest, `Invalid media type. Must be "image" or "video"`)
		return
	}

	update := &types.Update{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		MediaType:   req.MediaType,
		MediaURL:    effectiveMediaURL(req.UploadedMediaURL, req.MediaURL),
	}

	source, err := s.updates.Save(r.Context(), update)
	if err != nil {
		s.logger.WithError(err).Error("failed to save update")
		s.respondError(w, http.StatusInternalServerError, "Failed to create update")
		return
	}

	s.respondJSON(w, http.StatusCreated, struct {
		Message string        `json:"message"`
		Update  *types.Update `json:"update"`
		Source  string        `json:"source,omitempty"`
	}{Message: "Update created successfully", Update: update, Source: sourceTag(source)})
}

func (s *Service) handleUpdateUpdate(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	var req struct {
		Title            *string `json:"title"`
		Description      *string `json:"description"`
		MediaType        *string `json:"mediaType"`
		MediaURL         *string `json:"mediaUrl"`
		UploadedMediaURL *string `json:"uploadedMediaUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		s.respondError(w, http.StatusBadRequest, "Title cannot be empty")
		return
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		s.respondError(w, http.StatusBadRequest, "Description cannot be empty")
		return
	}
	if req.MediaType != nil && !types.ValidMediaType(*req.MediaType) {
		s.respondError(w, http.StatusBadRequest, `Invalid media type. Must be "image" or "video"`)
		return
	}

	patch := types.UpdatePatch{
		Title:       req.Title,
		Description: req.Description,
		MediaType:   req.MediaType,
		MediaURL:    req.MediaURL,
	}

	// An uploaded binary's URL beats a pasted one, same as on create.
	if req.UploadedMediaURL != nil && *req.UploadedMediaURL != "" {
		patch.MediaURL = req.UploadedMediaURL
	}

	update, source, err := s.updates.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Update not found")
			return
		}
		s.logger.WithError(err).Error("failed to update update")
		s.respondError(w, http.StatusInternalServerError, "Failed to update")
		return
	}

	s.respondJSON(w, http.StatusOK, struct {
		Message string        `json:"message"`
		Update  *types.Update `json:"update"`
		Source  string        `json:"source,omitempty"`
	}{Message: "Update updated successfully", Update: update, Source: sourceTag(source)})
}

func (s *Service) handleDeleteUpdate(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	if _, err := s.updates.Delete(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Update not found")
			return
		}
		s.logger.WithError(err).Error("failed to delete update")
		s.respondError(w, http.StatusInternalServerError, "Failed to delete")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Update deleted successfully"})
}

func (s *Service) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if !s.media.Configured() {
		s.respondError(w, http.StatusInternalServerError, "Cloudinary not configured. Please set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, and CLOUDINARY_API_SECRET.")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize + 1<<20); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid file type. Allowed: JPEG, PNG, GIF, WebP, AVIF")
		return
	}

	if header.Size > maxImageSize {
		s.respondError(w, http.StatusBadRequest, "File too large. Maximum size is 5MB")
		return
	}

	imageURL, err := s.media.UploadImage(r.Context(), file, contentType)
	if err != nil {
		s.logger.WithError(err).Error("cloudinary image upload failed")
		s.respondError(w, http.StatusInternalServerError, "Failed to upload to Cloudinary")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{
		"message":  "Image uploaded successfully",
		"imageUrl": imageURL,
	})
}

func (s *Service) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	if !s.media.Configured() {
		s.respondError(w, http.StatusInternalServerError, "Cloudinary not configured. Please set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, and CLOUDINARY_API_SECRET.")
		return
	}

	if err := r.ParseMultipartForm(maxVideoSize + 1<<20); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "No video file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !videoTypeAllowed(contentType, header.Filename) {
		s.respondError(w, http.StatusBadRequest, "Invalid file type. Allowed: MP4, MOV, WebM, AVI, MKV")
		return
	}

	if header.Size > maxVideoSize {
		s.respondError(w, http.StatusBadRequest, "File too large. Maximum size is 50MB for videos")
		return
	}

	result, err := s.media.UploadVideo(r.Context(), file, contentType)
	if err != nil {
		s.logger.WithError(err).Error("cloudinary video upload failed")
		s.respondError(w, http.StatusInternalServerError, "Failed to upload to Cloudinary")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"message":      "Video uploaded successfully",
		"videoUrl":     result.URL,
		"thumbnailUrl": result.ThumbnailURL,
		"duration":     result.Duration,
	})
}

// effectiveMediaURL prefers the uploaded binary's URL; a pasted external
// URL is discarded silently when both are supplied.
func effectiveMediaURL(uploaded, pasted string) string {
	if uploaded != "" {
		return uploaded
	}
	return pasted
}

func videoTypeAllowed(contentType, filename string) bool {
	if _, ok := allowedVideoTypes[contentType]; ok {
		return true
	}

	lower := strings.ToLower(filename)
	for _, ext := range allowedVideoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}

	return false
}
