// internal/api/client.go
package api

import (
	"compress/gzip"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/meshsite/planner/pkg/core"
)

// maxImageFetch caps the default image download at 32 MiB.
const maxImageFetch = 32 << 20

// Client handles communication with the companion viewer service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthcheck checks if the companion viewer is reachable.
func (c *Client) Healthcheck() error {
	resp, err := c.httpClient.Get(c.baseURL + "/healthcheck")
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// UploadSession sends a gzipped session record to the companion viewer.
func (c *Client) UploadSession(payload []byte, meta core.SessionMeta) error {
	// Create multipart form
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	// Write form fields and gzipped record in goroutine
	errCh := make(chan error, 1)
	go func() {
		defer pw.Close()
		defer writer.Close()

		// Form fields
		_ = writer.WriteField("secret", c.apiKey)
		_ = writer.WriteField("imageName", meta.ImageName)
		_ = writer.WriteField("savedAt", meta.SavedAt.UTC().Format(time.RFC3339))
		_ = writer.WriteField("nodeCount", strconv.Itoa(meta.NodeCount))
		_ = writer.WriteField("waypointCount", strconv.Itoa(meta.WaypointCount))

		part, err := writer.CreateFormFile("file", "session.json.gz")
		if err != nil {
			errCh <- fmt.Errorf("failed to create form file: %w", err)
			return
		}
		gz := gzip.NewWriter(part)
		if _, err := gz.Write(payload); err != nil {
			errCh <- fmt.Errorf("failed to compress record: %w", err)
			return
		}
		if err := gz.Close(); err != nil {
			errCh <- fmt.Errorf("failed to finish compression: %w", err)
			return
		}
		errCh <- nil
	}()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/v1/sessions/add", pr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	// Check goroutine error
	if writeErr := <-errCh; writeErr != nil {
		return writeErr
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload returned status %d", resp.StatusCode)
	}
	return nil
}

// FetchDefaultImage downloads the configured default site image.
func (c *Client) FetchDefaultImage(url string) ([]byte, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageFetch+1))
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	if len(raw) > maxImageFetch {
		return nil, fmt.Errorf("image exceeds %d byte limit", maxImageFetch)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("image body is empty")
	}
	return raw, nil
}
