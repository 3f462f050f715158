package server

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"selam/internal/content"
	"selam/internal/utils"
	"selam/pkg/types"

	"github.com/alexedwards/flow"
)

const maxDocumentSize = 10 << 20 // 10MB

var allowedDocumentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

func (s *Service) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	filter := content.Filter{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	docs, source, err := s.documents.List(r.Context(), filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list documents")
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}

	s.respondJSON(w, http.StatusOK, struct {
		Documents []*types.Document `json:"documents"`
		Source    string            `json:"source,omitempty"`
	}{Documents: docs, Source: sourceTag(source)})
}

func (s *Service) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	doc, source, err := s.documents.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch document")
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch document")
		return
	}

	s.respondJSON(w, http.StatusOK, struct {
		Document *types.Document `json:"document"`
		Source   string          `json:"source,omitempty"`
	}{Document: doc, Source: sourceTag(source)})
}

func (s *Service) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentSize + 1<<20); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	var in struct {
		Title       string `form:"title"`
		Description string `form:"description"`
		Category    string `form:"category"`
	}
	if err := decoder.Decode(&in, url.Values(r.MultipartForm.Value)); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid form fields")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if strings.TrimSpace(in.Title) == "" {
		s.respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedDocumentTypes[contentType]; !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid file type. Only PDF, DOC, and DOCX files are allowed.")
		return
	}

	if header.Size > maxDocumentSize {
		s.respondError(w, http.StatusBadRequest, "File size exceeds 10MB limit")
		return
	}

	if in.Category == "" {
		in.Category = types.CategoryOther
	}
	if !types.ValidDocumentCategory(in.Category) {
		s.respondError(w, http.StatusBadRequest, "Invalid document category")
		return
	}

	name := utils.NanoID() + strings.ToLower(filepath.Ext(header.Filename))

	fileURL, err := s.blobs.Upload(r.Context(), name, file, contentType)
	if err != nil {
		s.logger.WithError(err).Error("failed to store document binary")
		s.respondError(w, http.StatusInternalServerError, "Failed to upload document")
		return
	}

	doc := &types.Document{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		FileName:    header.Filename,
		FileURL:     fileURL,
		FileSize:    header.Size,
		FileType:    contentType,
	}

	source, err := s.documents.Save(r.Context(), doc)
	if err != nil {
		s.logger.WithError(err).Error("failed to save document")

		// The metadata write failed everywhere; don't orphan the binary.
		if cleanupErr := s.blobs.Delete(r.Context(), name); cleanupErr != nil {
			s.logger.WithError(cleanupErr).Warn("failed to remove orphaned document binary")
		}

		s.respondError(w, http.StatusInternalServerError, "Failed to upload document")
		return
	}

	s.respondJSON(w, http.StatusCreated, struct {
		Message  string          `json:"message"`
		Document *types.Document `json:"document"`
		Source   string          `json:"source,omitempty"`
	}{Message: "Document uploaded successfully", Document: doc, Source: sourceTag(source)})
}

func (s *Service) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := flow.Param(r.Context(), "id")

	doc, _, err := s.documents.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch document for delete")
		s.respondError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	if _, err := s.documents.Delete(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		s.logger.WithError(err).Error("failed to delete document")
		s.respondError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	// Metadata is gone; a failed binary delete is logged, not surfaced.
	if err := s.blobs.Delete(r.Context(), path.Base(doc.FileURL)); err != nil {
		s.logger.WithError(err).WithField("document", id).Warn("failed to delete document binary")
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}
