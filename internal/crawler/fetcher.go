package crawler

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPFetcher fetches pages over plain HTTP with a retry policy.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	retry     RetryPolicy
}

// NewHTTPFetcher builds a fetcher from the crawl options.
func NewHTTPFetcher(opts Options, retry RetryPolicy) *HTTPFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.SkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		userAgent: opts.UserAgent,
		retry:     retry,
	}
}

// Fetch downloads url, retrying transient failures per the policy.
// Responses with status 400 or above are failures.
func (f *HTTPFetcher) Fetch(url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		body, err := f.fetchOnce(url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if f.retry == nil || !f.retry.ShouldRetry(err, attempt+1) {
			break
		}
		time.Sleep(f.retry.Backoff(attempt))
	}
	return nil, lastErr
}

func (f *HTTPFetcher) fetchOnce(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	return body, nil
}
