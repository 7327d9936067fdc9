package extract

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// LlamaParse wraps the LlamaParse cloud parsing API: upload, poll the job,
// fetch the markdown result.
type LlamaParse struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *logger.Logger
}

var llamaFormats = []string{".pdf", ".docx", ".pptx"}

// NewLlamaParse creates the LlamaParse connector. The key may also come
// from LLAMA_CLOUD_API_KEY.
func NewLlamaParse(cfg config.ConnectorConfig, timeout time.Duration, log *logger.Logger) *LlamaParse {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("LLAMA_CLOUD_API_KEY")
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5
	}

	return &LlamaParse{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		logger:   log,
	}
}

func (l *LlamaParse) Name() string { return "llamaparse" }

func (l *LlamaParse) Available() bool { return l.endpoint != "" && l.apiKey != "" }

func (l *LlamaParse) Validate(path string) bool {
	return fileExists(path) && supportedExt(path, llamaFormats)
}

type llamaJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type llamaResult struct {
	Markdown string `json:"markdown"`
	JobMeta  struct {
		JobPages int `json:"job_pages"`
	} `json:"job_metadata"`
}

// Extract uploads the document, waits for the parse job, and fetches the
// markdown result.
func (l *LlamaParse) Extract(ctx context.Context, path string, progress ProgressFunc) (*Result, error) {
	if !l.Available() {
		return nil, fmt.Errorf("llamaparse: %w", ErrUnavailable)
	}

	start := time.Now()
	auth := map[string]string{"Authorization": "Bearer " + l.apiKey}

	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("llamaparse: %w", err)
	}

	var job llamaJob
	if err := uploadFile(ctx, l.client, l.endpoint+"/api/parsing/upload", path, auth, &job); err != nil {
		return nil, fmt.Errorf("llamaparse: upload %s: %w", path, err)
	}

	for job.Status != "SUCCESS" {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("llamaparse: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}

		if err := l.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("llamaparse: %w", err)
		}

		if err := getJSON(ctx, l.client, l.endpoint+"/api/parsing/job/"+job.ID, auth, &job); err != nil {
			return nil, fmt.Errorf("llamaparse: poll job %s: %w", job.ID, err)
		}

		if job.Status == "ERROR" {
			return nil, fmt.Errorf("llamaparse: job %s failed", job.ID)
		}
		if progress != nil {
			progress(0, 0)
		}
	}

	var parsed llamaResult
	if err := getJSON(ctx, l.client, l.endpoint+"/api/parsing/job/"+job.ID+"/result/markdown", auth, &parsed); err != nil {
		return nil, fmt.Errorf("llamaparse: fetch result %s: %w", job.ID, err)
	}

	if progress != nil {
		progress(parsed.JobMeta.JobPages, parsed.JobMeta.JobPages)
	}

	return &Result{
		Markdown:  parsed.Markdown,
		PageCount: parsed.JobMeta.JobPages,
		Method:    l.Name(),
		Duration:  time.Since(start),
		Metadata:  map[string]string{"job_id": job.ID},
	}, nil
}
