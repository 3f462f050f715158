package server_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartDocument builds a multipart body with the given metadata fields
// and a single file part named "document" carrying the given content type.
func multipartDocument(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="document"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func (e *testEnv) doMultipart(t *testing.T, target, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.service.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUploadDocumentDefaults(t *testing.T) {
	env := newTestEnv(t, false)

	pdf := []byte("%PDF-1.4 test content")
	body, contentType := multipartDocument(t, map[string]string{
		"title": "Annual Report 2026",
	}, "report.pdf", "application/pdf", pdf)

	rec := env.doMultipart(t, "/api/documents/upload", env.adminToken(t), body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	doc := decodeBody(t, rec)["document"].(map[string]any)
	assert.Equal(t, "Annual Report 2026", doc["title"])
	assert.Equal(t, "", doc["description"])
	assert.Equal(t, "other", doc["category"])
	assert.Equal(t, "report.pdf", doc["fileName"])
	assert.Equal(t, float64(len(pdf)), doc["fileSize"])
	assert.Equal(t, "application/pdf", doc["fileType"])

	fileURL := doc["fileUrl"].(string)
	require.True(t, strings.HasPrefix(fileURL, "/uploads/documents/"), fileURL)

	// binary landed on disk under the uploads dir
	written := filepath.Join(env.uploadsDir, "documents", path.Base(fileURL))
	data, err := os.ReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestUploadDocumentRequiresAuth(t *testing.T) {
	env := newTestEnv(t, false)

	body, contentType := multipartDocument(t, map[string]string{
		"title": "t",
	}, "report.pdf", "application/pdf", []byte("x"))

	rec := env.doMultipart(t, "/api/documents/upload", "", body, contentType)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadDocumentRequiresTitle(t *testing.T) {
	env := newTestEnv(t, false)

	body, contentType := multipartDocument(t, nil, "report.pdf", "application/pdf", []byte("x"))

	rec := env.doMultipart(t, "/api/documents/upload", env.adminToken(t), body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title is required", decodeBody(t, rec)["message"])
}

func TestUploadDocumentRejectsFileType(t *testing.T) {
	env := newTestEnv(t, false)

	body, contentType := multipartDocument(t, map[string]string{
		"title": "t",
	}, "script.sh", "text/x-shellscript", []byte("#!/bin/sh"))

	rec := env.doMultipart(t, "/api/documents/upload", env.adminToken(t), body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "Invalid file type")
}

func TestUploadDocumentRejectsBadCategory(t *testing.T) {
	env := newTestEnv(t, false)

	body, contentType := multipartDocument(t, map[string]string{
		"title":    "t",
		"category": "memes",
	}, "report.pdf", "application/pdf", []byte("x"))

	rec := env.doMultipart(t, "/api/documents/upload", env.adminToken(t), body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid document category", decodeBody(t, rec)["message"])
}

func TestListDocumentsByCategory(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.adminToken(t)

	for _, category := range []string{"report", "policy"} {
		body, contentType := multipartDocument(t, map[string]string{
			"title":    strings.ToUpper(category),
			"category": category,
		}, category+".pdf", "application/pdf", []byte("x"))

		rec := env.doMultipart(t, "/api/documents/upload", token, body, contentType)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/documents?category=policy", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	docs := decodeBody(t, rec)["documents"].([]any)
	require.Len(t, docs, 1)
	assert.Equal(t, "POLICY", docs[0].(map[string]any)["title"])
}

func TestDeleteDocumentRemovesBinary(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.adminToken(t)

	body, contentType := multipartDocument(t, map[string]string{
		"title": "Doomed",
	}, "doomed.pdf", "application/pdf", []byte("x"))

	rec := env.doMultipart(t, "/api/documents/upload", token, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	doc := decodeBody(t, rec)["document"].(map[string]any)
	id := doc["id"].(string)
	written := filepath.Join(env.uploadsDir, "documents", path.Base(doc["fileUrl"].(string)))
	_, err := os.Stat(written)
	require.NoError(t, err)

	rec = env.do(t, http.MethodDelete, "/api/documents/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = os.Stat(written)
	assert.True(t, os.IsNotExist(err))

	rec = env.do(t, http.MethodGet, "/api/documents/"+id, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
