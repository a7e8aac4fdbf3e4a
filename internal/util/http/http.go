// Package http provides HTTP utilities for fetching remote photos.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jmylchreest/shirtsort/internal/security"
	"github.com/jmylchreest/shirtsort/internal/version"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// ErrContentType is returned when the response media type is not accepted.
var ErrContentType = errors.New("unexpected content type")

// ImageTypes accepts image responses and untyped binary bodies.
var ImageTypes = []string{"image/", "application/octet-stream"}

// FetchOptions configures HTTP fetch behavior.
type FetchOptions struct {
	// Timeout specifies the HTTP request timeout.
	// If zero, DefaultTimeout is used.
	Timeout time.Duration

	// MaxBytes caps the response body. Zero means unlimited.
	MaxBytes int64

	// Accept lists media type prefixes the response must match. A missing
	// Content-Type header is always accepted. Empty means any type.
	Accept []string

	// Headers specifies additional HTTP headers to send with the request.
	Headers map[string]string

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Fetch retrieves content from a URL with context and timeout support.
// It sets the User-Agent header and treats any non-200 status as an error.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", version.UserAgent())
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	if err := checkContentType(resp.Header.Get("Content-Type"), opts.Accept); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(security.NewLimitedReader(resp.Body, opts.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func checkContentType(header string, accept []string) error {
	if len(accept) == 0 || header == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrContentType, header)
	}
	for _, prefix := range accept {
		if strings.HasPrefix(mediaType, prefix) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentType, mediaType)
}
