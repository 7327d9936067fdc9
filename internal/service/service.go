// Package service implements the document-processing operations behind
// every surface (MCP, HTTP, CLI): anonymize, restore, extract, segment,
// split.
package service

import (
	"fmt"

	"github.com/inkognito-mcp/inkognito/internal/cache"
	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/detect"
	"github.com/inkognito-mcp/inkognito/internal/extract"
	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

// ProgressFunc receives coarse progress updates during an operation.
type ProgressFunc func(message string, fraction float64)

// ProcessingResult is the uniform outcome of every tool operation.
type ProcessingResult struct {
	Success     bool                   `json:"success"`
	OutputPaths []string               `json:"output_paths"`
	Statistics  map[string]interface{} `json:"statistics"`
	Message     string                 `json:"message"`
	VaultPath   string                 `json:"vault_path,omitempty"`
	Failed      []string               `json:"failed,omitempty"`
}

// Service wires the engine components together for the tool surfaces.
type Service struct {
	cfg      *config.Config
	logger   *logger.Logger
	detector detect.Detector
	registry *extract.Registry
	cache    *cache.ExtractionCache // nil when disabled
	vaults   *vault.Manager
}

// New builds the service from configuration. The extraction cache is
// optional: a Redis connection failure disables it with a warning rather
// than failing startup.
func New(cfg *config.Config, log *logger.Logger) (*Service, error) {
	detector, err := buildDetector(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build detector: %w", err)
	}

	s := &Service{
		cfg:      cfg,
		logger:   log.WithComponent("service"),
		detector: detector,
		registry: extract.NewRegistry(cfg.Extract, log),
		vaults:   vault.NewManager(log),
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(cfg.Cache, log)
		if err != nil {
			s.logger.Warn("Extraction cache unavailable, continuing without it")
		} else {
			s.cache = c
		}
	}

	return s, nil
}

func buildDetector(cfg *config.Config, log *logger.Logger) (detect.Detector, error) {
	switch cfg.Detector.Mode {
	case "http":
		return detect.NewHTTPDetector(cfg.Detector.Endpoint, cfg.Detector.Timeout, log), nil
	default:
		return detect.NewPatternDetector(cfg.Anonymizer.EntityTypes, log)
	}
}

// Close releases held resources.
func (s *Service) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

func failure(format string, args ...interface{}) *ProcessingResult {
	return &ProcessingResult{
		Success:     false,
		OutputPaths: []string{},
		Statistics:  map[string]interface{}{},
		Message:     fmt.Sprintf(format, args...),
	}
}

func reportProgress(fn ProgressFunc, message string, fraction float64) {
	if fn != nil {
		fn(message, fraction)
	}
}
