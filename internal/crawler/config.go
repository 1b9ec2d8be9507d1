package crawler

import "time"

// Options configures a crawl.
type Options struct {
	// MaxPages bounds how many pages are persisted. Negative means
	// unbounded. Workers already past their fetch when the budget
	// fills may each persist one extra page.
	MaxPages int
	// OutputDir receives one .html file per fetched page.
	OutputDir string
	// Threads is the worker count. Values below one are raised to one.
	Threads int
	// UserAgent is sent on every request.
	UserAgent string
	// Timeout bounds a single fetch attempt.
	Timeout time.Duration
	// SkipVerify disables TLS certificate checks.
	SkipVerify bool
}

// withDefaults fills in unset fields.
func (o Options) withDefaults() Options {
	if o.Threads < 1 {
		o.Threads = 1
	}
	if o.UserAgent == "" {
		o.UserAgent = "webminer/1.0"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.OutputDir == "" {
		o.OutputDir = "output"
	}
	return o
}
