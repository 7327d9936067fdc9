package extract

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// AzureDI wraps Azure Document Intelligence's prebuilt-layout model with
// markdown output. Cloud service: API-key gated and rate limited.
type AzureDI struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *logger.Logger
}

const azureAPIVersion = "2024-07-31"

var azureFormats = []string{".pdf", ".jpg", ".jpeg", ".png", ".bmp", ".tiff"}

// NewAzureDI creates the Azure connector. Endpoint and key may also come
// from the environment (AZURE_DI_ENDPOINT / AZURE_DI_KEY).
func NewAzureDI(cfg config.ConnectorConfig, timeout time.Duration, log *logger.Logger) *AzureDI {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("AZURE_DI_ENDPOINT")
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("AZURE_DI_KEY")
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 10
	}

	return &AzureDI{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		logger:   log,
	}
}

func (a *AzureDI) Name() string { return "azure" }

func (a *AzureDI) Available() bool { return a.endpoint != "" && a.apiKey != "" }

func (a *AzureDI) Validate(path string) bool {
	if !fileExists(path) || !supportedExt(path, azureFormats) {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	// Layout model caps at 500MB.
	return info.Size() <= 500*1024*1024
}

type azureAnalyzeResult struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Content string `json:"content"`
		Pages   []struct {
			PageNumber int `json:"pageNumber"`
		} `json:"pages"`
	} `json:"analyzeResult"`
}

// Extract submits the document to the layout model and polls the analyze
// operation until it completes.
func (a *AzureDI) Extract(ctx context.Context, path string, progress ProgressFunc) (*Result, error) {
	if !a.Available() {
		return nil, fmt.Errorf("azure: %w", ErrUnavailable)
	}

	start := time.Now()

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("azure: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("azure: read %s: %w", path, err)
	}

	analyzeURL := fmt.Sprintf(
		"%s/documentintelligence/documentModels/prebuilt-layout:analyze?api-version=%s&outputContentFormat=markdown",
		a.endpoint, azureAPIVersion,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, analyzeURL, strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("azure: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeFor(path))
	req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure: submit %s: %w", path, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("azure: submit %s: unexpected status %d", path, resp.StatusCode)
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return nil, fmt.Errorf("azure: submit %s: missing Operation-Location", path)
	}

	// Poll until the analyze operation finishes.
	headers := map[string]string{"Ocp-Apim-Subscription-Key": a.apiKey}
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("azure: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("azure: %w", err)
		}

		var parsed azureAnalyzeResult
		if err := getJSON(ctx, a.client, operationURL, headers, &parsed); err != nil {
			return nil, fmt.Errorf("azure: poll %s: %w", path, err)
		}

		switch parsed.Status {
		case "succeeded":
			pages := len(parsed.AnalyzeResult.Pages)
			if progress != nil {
				progress(pages, pages)
			}
			return &Result{
				Markdown:  parsed.AnalyzeResult.Content,
				PageCount: pages,
				Method:    a.Name(),
				Duration:  time.Since(start),
				Metadata:  map[string]string{"model": "prebuilt-layout"},
			}, nil
		case "failed":
			return nil, fmt.Errorf("azure: analyze %s failed", path)
		default:
			if progress != nil {
				progress(0, 0)
			}
		}
	}
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	case ".tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
