package crawler

import "time"

// Fetcher retrieves the raw body of a URL.
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}

// RetryPolicy decides whether a failed fetch is retried and how long
// to wait before the next attempt.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// Sink persists fetched pages.
type Sink interface {
	Save(url string, body []byte) (string, error)
}
