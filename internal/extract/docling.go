package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// Docling wraps a local docling-serve instance. No API key, runs fully
// offline, handles PDFs and office formats.
type Docling struct {
	endpoint string
	client   *http.Client
	logger   *logger.Logger
}

var doclingFormats = []string{".pdf", ".docx", ".pptx", ".html"}

// NewDocling creates the docling connector.
func NewDocling(cfg config.ConnectorConfig, timeout time.Duration, log *logger.Logger) *Docling {
	return &Docling{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   log,
	}
}

func (d *Docling) Name() string { return "docling" }

func (d *Docling) Available() bool { return d.endpoint != "" }

func (d *Docling) Validate(path string) bool {
	return fileExists(path) && supportedExt(path, doclingFormats)
}

type doclingResponse struct {
	Markdown  string `json:"markdown"`
	PageCount int    `json:"page_count"`
}

// Extract uploads the document for conversion and returns markdown.
func (d *Docling) Extract(ctx context.Context, path string, progress ProgressFunc) (*Result, error) {
	if !d.Available() {
		return nil, fmt.Errorf("docling: %w", ErrUnavailable)
	}

	start := time.Now()
	if progress != nil {
		progress(0, 0)
	}

	var parsed doclingResponse
	if err := uploadFile(ctx, d.client, d.endpoint+"/v1/convert", path, nil, &parsed); err != nil {
		return nil, fmt.Errorf("docling: convert %s: %w", path, err)
	}

	if progress != nil {
		progress(parsed.PageCount, parsed.PageCount)
	}

	return &Result{
		Markdown:  parsed.Markdown,
		PageCount: parsed.PageCount,
		Method:    d.Name(),
		Duration:  time.Since(start),
		Metadata:  map[string]string{"endpoint": d.endpoint},
	}, nil
}
