package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyEmail contextKey = "email"
	contextKeyRole  contextKey = "role"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth checks for a valid admin token, either as a bearer header or
// inside the encrypted dashboard cookie, and rejects with 401 otherwise.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)

		if raw == "" && s.cookie != nil {
			if cookie, err := r.Cookie(authCookieName); err == nil {
				if err := s.cookie.Decode(authCookieName, cookie.Value, &raw); err != nil {
					s.logger.WithError(err).Debug("failed to decrypt auth cookie")
				}
			}
		}

		if raw == "" {
			s.respondError(w, http.StatusUnauthorized, "Unauthorized. Please login first.")
			return
		}

		token, err := s.parseToken(raw)
		if err != nil {
			s.logger.WithError(err).Debug("token rejected")
			s.respondError(w, http.StatusUnauthorized, "Unauthorized. Please login first.")
			return
		}

		ctx := r.Context()

		var email string
		if err := token.Get("email", &email); err == nil && email != "" {
			ctx = context.WithValue(ctx, contextKeyEmail, email)
		}

		var role string
		if err := token.Get("role", &role); err == nil && role != "" {
			ctx = context.WithValue(ctx, contextKeyRole, role)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
