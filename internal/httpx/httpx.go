package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPError carries status/body for non-2xx responses so callers can log
// something more useful than a bare status line.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 900))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// Fetch performs a single GET and returns the full body. There is no retry
// loop: the download stage treats every request as one bounded attempt and
// isolates failures per item. The body is always drained so the transport
// can reuse the connection.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := readAndClose(resp.Body)
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			Method:     http.MethodGet,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}
	return body, nil
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}
