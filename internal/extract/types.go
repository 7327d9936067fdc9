package extract

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the connector is not configured or its backing
// service is not reachable.
var ErrUnavailable = errors.New("extractor unavailable")

// ErrNoExtractor indicates no registered connector can handle the file.
var ErrNoExtractor = errors.New("no suitable extractor available")

// Result is the outcome of one document conversion.
type Result struct {
	Markdown  string
	PageCount int
	Method    string
	Duration  time.Duration
	Metadata  map[string]string
}

// ProgressFunc reports conversion progress (current page, total pages).
// total may be zero when the backend does not report it.
type ProgressFunc func(current, total int)

// Extractor wraps one external document-conversion service.
type Extractor interface {
	// Name identifies the connector in logs and reports.
	Name() string
	// Available reports whether the connector is configured for use.
	Available() bool
	// Validate reports whether the connector can handle this file.
	Validate(path string) bool
	// Extract converts the document to markdown.
	Extract(ctx context.Context, path string, progress ProgressFunc) (*Result, error)
}
