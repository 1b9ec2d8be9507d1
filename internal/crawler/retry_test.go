package crawler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grobinson/webminer/internal/crawler"
)

func TestShouldRetry(t *testing.T) {
	t.Parallel()
	p := crawler.NewExponentialRetryPolicy()

	require.False(t, p.ShouldRetry(nil, 1))
	require.True(t, p.ShouldRetry(errors.New("transient"), 1))
	require.True(t, p.ShouldRetry(errors.New("transient"), 2))
	require.False(t, p.ShouldRetry(errors.New("transient"), 3))
	require.False(t, p.ShouldRetry(context.Canceled, 1))
	require.False(t, p.ShouldRetry(context.DeadlineExceeded, 1))
}

func TestBackoffGrowsAndStaysBounded(t *testing.T) {
	t.Parallel()
	p := crawler.NewExponentialRetryPolicy()

	for attempt := 0; attempt < 8; attempt++ {
		d := p.Backoff(attempt)
		require.Greater(t, d, time.Duration(0))
		require.LessOrEqual(t, d, 5*time.Second)
	}
}
