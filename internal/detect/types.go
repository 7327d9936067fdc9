package detect

import (
	"context"
	"fmt"
	"regexp"

	"github.com/inkognito-mcp/inkognito/internal/entity"
)

// Detector finds sensitive spans in raw text. Implementations may be local
// (rule table) or remote (model service); either way the engine only ever
// consumes the returned detections.
type Detector interface {
	Scan(ctx context.Context, text string) ([]entity.Detection, error)
}

// Rule represents a single pattern-based detection rule
type Rule struct {
	Name       string
	Type       entity.Type
	Pattern    *regexp.Regexp
	Confidence float64
}

// ScanError wraps a detector failure for one text. The pipeline treats it
// as recoverable: the file is skipped, the batch continues.
type ScanError struct {
	Detector string
	Err      error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("detector %s: scan failed: %v", e.Detector, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }
