package storage

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	imageFolder = "selam-updates"
	videoFolder = "selam-updates/videos"
)

// Cloudinary uploads update media through Cloudinary's signed REST API.
type Cloudinary struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

type VideoUpload struct {
	URL          string
	ThumbnailURL string
	Duration     float64
}

func NewCloudinary(cloudName, apiKey, apiSecret string, timeout time.Duration) *Cloudinary {
	return &Cloudinary{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether credentials are present. Unconfigured media
// uploads fail the request; they never fall back anywhere.
func (c *Cloudinary) Configured() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// UploadImage sends the file to Cloudinary and returns the served URL.
func (c *Cloudinary) UploadImage(ctx context.Context, file io.Reader, contentType string) (string, error) {
	result, err := c.upload(ctx, "image", imageFolder, file, contentType)
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// UploadVideo sends the file to Cloudinary's video endpoint and returns
// the served URL plus a generated thumbnail and the clip duration.
func (c *Cloudinary) UploadVideo(ctx context.Context, file io.Reader, contentType string) (VideoUpload, error) {
	if contentType == "" {
		contentType = "video/mp4"
	}

	result, err := c.upload(ctx, "video", videoFolder, file, contentType)
	if err != nil {
		return VideoUpload{}, err
	}

	return VideoUpload{
		URL:          result.SecureURL,
		ThumbnailURL: strings.Replace(result.SecureURL, "/upload/", "/upload/so_0,w_400,h_225,c_fill/", 1),
		Duration:     result.Duration,
	}, nil
}

type uploadResult struct {
	SecureURL string  `json:"secure_url"`
	Duration  float64 `json:"duration"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Cloudinary) upload(ctx context.Context, resourceType, folder string, file io.Reader, contentType string) (*uploadResult, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read media file: %w", err)
	}

	timestamp := time.Now().Unix()

	form := url.Values{}
	form.Set("file", fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(raw)))
	form.Set("api_key", c.apiKey)
	form.Set("timestamp", fmt.Sprintf("%d", timestamp))
	form.Set("signature", c.sign(folder, timestamp))
	form.Set("folder", folder)

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/%s/upload", c.cloudName, resourceType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build cloudinary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode cloudinary response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := result.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("cloudinary upload failed: %s", msg)
	}

	return &result, nil
}

// sign produces the request signature Cloudinary expects: the SHA-1 of the
// sorted upload parameters concatenated with the API secret.
func (c *Cloudinary) sign(folder string, timestamp int64) string {
	payload := fmt.Sprintf("folder=%s&timestamp=%d%s", folder, timestamp, c.apiSecret)
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
