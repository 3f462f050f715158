package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const authCookieName = "selam_admin_token"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin checks the submitted credentials against the configured
// admin account and issues a signed token, returned in the body and also
// set as an encrypted cookie for the dashboard.
func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.config.AdminPassword == "" || s.config.AuthTokenSecret == "" {
		s.logger.Warn("admin login attempted without ADMIN_PASSWORD/AUTH_TOKEN_SECRET configured")
		s.respondError(w, http.StatusUnauthorized, "Admin login is not configured")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.config.AdminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.config.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		s.respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	expiresAt := time.Now().Add(time.Duration(s.config.TokenTTLSec) * time.Second)

	signed, err := IssueToken(s.config.AuthTokenSecret, s.config.AdminEmail, expiresAt)
	if err != nil {
		s.logger.WithError(err).Error("failed to sign admin token")
		s.internalServerError(w)
		return
	}

	if s.cookie != nil {
		encrypted, err := s.cookie.Encode(authCookieName, signed)
		if err != nil {
			s.logger.WithError(err).Error("failed to encrypt auth cookie")
		} else {
			http.SetCookie(w, &http.Cookie{
				Name:     authCookieName,
				Value:    encrypted,
				Path:     "/",
				Expires:  expiresAt,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"token":     signed,
		"expiresAt": expiresAt.UTC(),
		"name":      "Administrator",
		"email":     s.config.AdminEmail,
		"role":      "admin",
	})
}

func (s *Service) parseToken(raw string) (jwt.Token, error) {
	return ParseToken(s.config.AuthTokenSecret, raw)
}

// IssueToken mints an HS256-signed admin token expiring at the given time.
func IssueToken(secret, email string, expiresAt time.Time) (string, error) {
	token, err := jwt.NewBuilder().
		Subject("admin").
		Issuer("selam").
		IssuedAt(time.Now()).
		Expiration(expiresAt).
		Claim("email", email).
		Claim("role", "admin").
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), []byte(secret)))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// ParseToken verifies the signature and expiry of an admin token.
func ParseToken(secret, raw string) (jwt.Token, error) {
	if secret == "" {
		return nil, fmt.Errorf("no token secret configured")
	}

	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), []byte(secret)),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	return token, nil
}
