package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultRelayTimeout bounds a single relay transfer, not the enclosing
// request.
const defaultRelayTimeout = 5 * time.Minute

// HTTPRelay forwards upload payloads to presigned storage URLs.
type HTTPRelay struct {
	client *http.Client
}

// NewHTTPRelay creates a new relay with the given transfer timeout.
func NewHTTPRelay(timeout time.Duration) *HTTPRelay {
	if timeout == 0 {
		timeout = defaultRelayTimeout
	}
	return &HTTPRelay{
		client: &http.Client{Timeout: timeout},
	}
}

// Put transmits body to url with the method the URL was signed for and
// returns the upstream status code.
func (r *HTTPRelay) Put(ctx context.Context, url string, body io.Reader, size int64, contentType string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return 0, fmt.Errorf("build relay request: %w", err)
	}
	if size > 0 {
		req.ContentLength = size
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("relay put: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// Compile-time check
var _ Relay = (*HTTPRelay)(nil)
