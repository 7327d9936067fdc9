package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// MinerU wraps a local MinerU service. PDF-only, slower than docling but
// better at formulas and multi-column layouts.
type MinerU struct {
	endpoint string
	client   *http.Client
	logger   *logger.Logger
}

// NewMinerU creates the MinerU connector.
func NewMinerU(cfg config.ConnectorConfig, timeout time.Duration, log *logger.Logger) *MinerU {
	return &MinerU{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   log,
	}
}

func (m *MinerU) Name() string { return "mineru" }

func (m *MinerU) Available() bool { return m.endpoint != "" }

func (m *MinerU) Validate(path string) bool {
	return fileExists(path) && supportedExt(path, []string{".pdf"})
}

type minerUResponse struct {
	Markdown string `json:"md_content"`
	Pages    int    `json:"pages"`
}

// Extract uploads the PDF for conversion and returns markdown.
func (m *MinerU) Extract(ctx context.Context, path string, progress ProgressFunc) (*Result, error) {
	if !m.Available() {
		return nil, fmt.Errorf("mineru: %w", ErrUnavailable)
	}

	start := time.Now()
	if progress != nil {
		progress(0, 0)
	}

	var parsed minerUResponse
	if err := uploadFile(ctx, m.client, m.endpoint+"/parse", path, nil, &parsed); err != nil {
		return nil, fmt.Errorf("mineru: parse %s: %w", path, err)
	}

	if progress != nil {
		progress(parsed.Pages, parsed.Pages)
	}

	return &Result{
		Markdown:  parsed.Markdown,
		PageCount: parsed.Pages,
		Method:    m.Name(),
		Duration:  time.Since(start),
		Metadata:  map[string]string{"endpoint": m.endpoint},
	}, nil
}
