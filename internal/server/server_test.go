package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"selam/internal/content"
	"selam/internal/mailer"
	"selam/internal/server"
	"selam/internal/storage"
	"selam/internal/store/local"
	"selam/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

// downPrimary fails every call, simulating an unreachable database.
type downPrimary[T content.Entity, P any] struct{}

func (downPrimary[T, P]) Insert(context.Context, T) error { return errDown }

func (downPrimary[T, P]) FindAll(context.Context, content.Filter) ([]T, error) {
	return nil, errDown
}

func (downPrimary[T, P]) FindOne(context.Context, string) (T, error) {
	var zero T
	return zero, errDown
}

func (downPrimary[T, P]) UpdateOne(context.Context, string, P) (T, error) {
	var zero T
	return zero, errDown
}

func (downPrimary[T, P]) DeleteOne(context.Context, string) (bool, error) {
	return false, errDown
}

type testEnv struct {
	service    *server.Service
	config     *types.Config
	uploadsDir string
}

// newTestEnv builds a service over temp-dir local stores. With primaryDown
// set, every coordinator carries a primary store that always fails, forcing
// the fallback path; otherwise no primary is configured at all.
func newTestEnv(t *testing.T, primaryDown bool) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dataDir := t.TempDir()
	uploadsDir := t.TempDir()

	config := &types.Config{
		Environment:     "test",
		DataDir:         dataDir,
		UploadsDir:      uploadsDir,
		StorageBackend:  "disk",
		AdminEmail:      "admin@selam.co.ke",
		AdminPassword:   "s3cret-password",
		AuthTokenSecret: "test-signing-secret",
		TokenTTLSec:     3600,
	}

	documents := content.NewCoordinator(
		"documents",
		primaryFor[*types.Document, types.DocumentPatch](primaryDown),
		local.New[types.Document, types.DocumentPatch](dataDir, "documents", logger),
		logger, 0,
	)
	updates := content.NewCoordinator(
		"updates",
		primaryFor[*types.Update, types.UpdatePatch](primaryDown),
		local.New[types.Update, types.UpdatePatch](dataDir, "updates", logger),
		logger, 0,
	)
	applications := content.NewCoordinator(
		"applications",
		primaryFor[*types.Application, types.ApplicationPatch](primaryDown),
		local.New[types.Application, types.ApplicationPatch](dataDir, "applications", logger),
		logger, 0,
	)

	service, err := server.New(
		config,
		logger,
		documents,
		updates,
		applications,
		storage.NewDiskStorage(uploadsDir),
		storage.NewCloudinary("", "", "", 0),
		mailer.New(config),
		nil,
	)
	require.NoError(t, err)

	return &testEnv{service: service, config: config, uploadsDir: uploadsDir}
}

func primaryFor[T content.Entity, P any](down bool) content.PrimaryStore[T, P] {
	if down {
		return downPrimary[T, P]{}
	}
	return nil
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	token, err := server.IssueToken(e.config.AuthTokenSecret, e.config.AdminEmail, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return token
}

// do runs a request through the router. token is added as a bearer header
// when non-empty.
func (e *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.service.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func TestHealthzWithoutPrimary(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "unconfigured", body["primary"])
}
