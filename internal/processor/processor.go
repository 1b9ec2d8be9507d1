// Package processor defines the extractor interface, the registry that
// names extractors, and the built-in extractor set.
package processor

import "github.com/grobinson/webminer/internal/record"

// Options carries string configuration handed to a processor before
// use.
type Options map[string]string

// Processor turns one HTML document into a Record.
type Processor interface {
	// Name identifies the processor in the registry.
	Name() string
	// Process extracts a record from the document body. The url is
	// recorded verbatim. Implementations must be safe for concurrent
	// calls on distinct inputs.
	Process(url string, body []byte) (record.Record, error)
}

// Configurable is implemented by processors that accept options.
type Configurable interface {
	Configure(opts Options)
}

// Metadata describes a plugin for logging at registration time.
type Metadata struct {
	Name        string
	Version     string
	Description string
}
