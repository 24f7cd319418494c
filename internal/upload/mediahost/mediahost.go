// Package mediahost uploads files to the external media hosting service over
// HTTP.
package mediahost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/coderharsx1122/utube-backend/pkg/httpclient"
)

// Config holds media host connection settings.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client relays local files to the media host. Calls go through a circuit
// breaker so a degraded media host fails fast instead of tying up request
// handlers.
type Client struct {
	http   *httpclient.CircuitBreakerClient
	cfg    Config
	logger *slog.Logger
}

// New creates a media host client.
func New(cfg Config, logger *slog.Logger) *Client {
	base := httpclient.New(httpclient.DefaultConfig())
	return &Client{
		http:   httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("mediahost"), logger),
		cfg:    cfg,
		logger: logger,
	}
}

// uploadResponse is the media host's reply to a successful upload.
type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends the file at localPath to the media host and returns the hosted
// URL. The local file is removed in all cases; a removal failure is logged
// and never propagated.
func (c *Client) Upload(ctx context.Context, localPath string) (string, error) {
	defer func() {
		if err := os.Remove(localPath); err != nil {
			c.logger.WarnContext(ctx, "failed to remove temp upload file",
				slog.String("path", localPath),
				slog.String("error", err.Error()),
			)
		}
	}()

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open upload file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/upload", bytes.NewReader(body.Bytes()))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("upload to media host: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("media host returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode media host response: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("media host response missing url")
	}

	return parsed.URL, nil
}
