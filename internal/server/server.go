package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"selam/internal/content"
	"selam/internal/mailer"
	"selam/internal/storage"
	"selam/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	documents    *content.Coordinator[*types.Document, types.DocumentPatch]
	updates      *content.Coordinator[*types.Update, types.UpdatePatch]
	applications *content.Coordinator[*types.Application, types.ApplicationPatch]

	blobs    storage.Blob
	media    *storage.Cloudinary
	notifier *mailer.Mailer

	cookie       *securecookie.SecureCookie
	checkPrimary func(context.Context) error

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	documents *content.Coordinator[*types.Document, types.DocumentPatch],
	updates *content.Coordinator[*types.Update, types.UpdatePatch],
	applications *content.Coordinator[*types.Application, types.ApplicationPatch],
	blobs storage.Blob,
	media *storage.Cloudinary,
	notifier *mailer.Mailer,
	checkPrimary func(context.Context) error,
) (*Service, error) {
	mux := flow.New()

	s := &Service{
		logger: logger,
		config: config,

		documents:    documents,
		updates:      updates,
		applications: applications,

		blobs:    blobs,
		media:    media,
		notifier: notifier,

		cookie:       buildCookieCodec(config),
		checkPrimary: checkPrimary,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealthz, http.MethodGet)
	r.HandleFunc("/api/auth/login", s.handleLogin, http.MethodPost)

	r.HandleFunc("/api/documents", s.handleListDocuments, http.MethodGet)
	r.HandleFunc("/api/documents/:id", s.handleGetDocument, http.MethodGet)

	r.HandleFunc("/api/updates", s.handleListUpdates, http.MethodGet)
	r.HandleFunc("/api/updates/:id", s.handleGetUpdate, http.MethodGet)

	r.HandleFunc("/api/applications", s.handleListApplications, http.MethodGet)
	r.HandleFunc("/api/applications", s.handleCreateApplication, http.MethodPost)
	r.HandleFunc("/api/applications/:id", s.handleGetApplication, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/documents/upload", s.handleUploadDocument, http.MethodPost)
		r.HandleFunc("/api/documents/:id", s.handleDeleteDocument, http.MethodDelete)

		r.HandleFunc("/api/updates", s.handleCreateUpdate, http.MethodPost)
		r.HandleFunc("/api/updates/:id", s.handleUpdateUpdate, http.MethodPut)
		r.HandleFunc("/api/updates/:id", s.handleDeleteUpdate, http.MethodDelete)
		r.HandleFunc("/api/updates/upload", s.handleUploadImage, http.MethodPost)
		r.HandleFunc("/api/updates/video-upload", s.handleUploadVideo, http.MethodPost)

		r.HandleFunc("/api/applications/:id", s.handleUpdateApplication, http.MethodPut)
		r.HandleFunc("/api/applications/:id", s.handleDeleteApplication, http.MethodDelete)
	})

	// Binaries written by the disk storage backend
	r.Handle("/uploads/...", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.config.UploadsDir))), http.MethodGet)
}

func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	primary := "unconfigured"

	if s.checkPrimary != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.checkPrimary(ctx); err != nil {
			primary = "unreachable"
		} else {
			primary = "ok"
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"primary": primary,
	})
}

func buildCookieCodec(config *types.Config) *securecookie.SecureCookie {
	if config.CookieHashKey == "" || config.CookieBlockKey == "" {
		return nil
	}

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if len(hashKey) == 0 || len(blockKey) == 0 {
		return nil
	}

	return securecookie.New(hashKey, blockKey)
}
