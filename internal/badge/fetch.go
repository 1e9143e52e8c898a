package badge

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fortio.org/log"
)

// DefaultTimeout bounds every request to a badge service.
const DefaultTimeout = 10 * time.Second

const maxBadgeBytes = 1 << 20

// ErrVerification is returned when a badge service rejects a badge URL.
var ErrVerification = errors.New("badge verification failed")

// Fetcher performs single-attempt GETs against badge services.
type Fetcher struct {
	Client *http.Client
}

// NewFetcher returns a Fetcher whose client times out after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

// Get returns the body and status code of rawURL.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBadgeBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// Verify requests rawURL and fails unless the service answers 200. Data URIs
// have nothing to verify.
func (f *Fetcher) Verify(ctx context.Context, rawURL string) error {
	if strings.HasPrefix(rawURL, "data:") {
		return nil
	}
	body, status, err := f.Get(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if status != http.StatusOK {
		log.Debugf("Verification response: %s", body)
		return fmt.Errorf("%w: %s returned %d", ErrVerification, rawURL, status)
	}
	return nil
}

// Inline downloads the rendered badge and returns it as an SVG data URI.
// Any failure returns rawURL unchanged.
func (f *Fetcher) Inline(ctx context.Context, rawURL string) string {
	body, status, err := f.Get(ctx, rawURL)
	if err == nil && status != http.StatusOK {
		err = fmt.Errorf("status %d", status)
	}
	if err != nil {
		log.Warnf("Failed to fetch badge from %s: %v; falling back to external URL", rawURL, err)
		return rawURL
	}
	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(body)
	log.Debugf("Inlined badge (%d bytes)", len(uri))
	return uri
}
