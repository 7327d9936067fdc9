package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/extract"
)

// ExtractRequest describes one document conversion.
type ExtractRequest struct {
	FilePath   string
	OutputPath string // defaults to the input with a .md extension
	Method     string // "auto" or a connector name
	Progress   ProgressFunc
}

// Extract converts a document to markdown using the configured connectors.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*ProcessingResult, error) {
	if _, err := os.Stat(req.FilePath); err != nil {
		return failure("Input file not found: %s", req.FilePath), nil
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		ext := filepath.Ext(req.FilePath)
		outputPath = strings.TrimSuffix(req.FilePath, ext) + ".md"
	}

	reportProgress(req.Progress, fmt.Sprintf("Extracting %s...", filepath.Base(req.FilePath)), 0.2)

	result, err := s.extractDocument(ctx, req.FilePath, req.Method, req.Progress)
	if err != nil {
		return nil, err
	}

	reportProgress(req.Progress, "Writing markdown output...", 0.9)

	if err := os.WriteFile(outputPath, []byte(result.Markdown), 0o644); err != nil {
		return nil, fmt.Errorf("write markdown output: %w", err)
	}

	stats := map[string]interface{}{
		"extraction_method": result.Method,
		"pages":             result.PageCount,
		"processing_time":   result.Duration.String(),
		"output_size":       len(result.Markdown),
	}
	for k, v := range result.Metadata {
		stats[k] = v
	}

	reportProgress(req.Progress, "Extraction complete!", 1.0)

	return &ProcessingResult{
		Success:     true,
		OutputPaths: []string{outputPath},
		Statistics:  stats,
		Message:     fmt.Sprintf("Successfully extracted %s to markdown", filepath.Base(req.FilePath)),
	}, nil
}

// extractDocument picks a connector and runs the conversion, consulting
// the extraction cache when enabled.
func (s *Service) extractDocument(ctx context.Context, path, method string, progress ProgressFunc) (*extract.Result, error) {
	var extractor extract.Extractor
	if method == "" || method == "auto" {
		extractor = s.registry.AutoSelect(path)
		if extractor == nil {
			return nil, fmt.Errorf("%w for %s (available: %s)",
				extract.ErrNoExtractor, path, strings.Join(s.registry.Names(), ", "))
		}
	} else {
		extractor = s.registry.Get(method)
		if extractor == nil {
			return nil, fmt.Errorf("unknown extraction method: %s", method)
		}
		if !extractor.Available() {
			return nil, fmt.Errorf("%s: %w", extractor.Name(), extract.ErrUnavailable)
		}
	}

	var cacheKey string
	if s.cache != nil {
		key, err := s.cache.Key(path)
		if err == nil {
			cacheKey = key
			if cached, _ := s.cache.Get(ctx, cacheKey); cached != nil {
				s.logger.Debug("Extraction served from cache", zap.String("file", path))
				return cached, nil
			}
		}
	}

	var progressFn extract.ProgressFunc
	if progress != nil {
		progressFn = func(current, total int) {
			if total > 0 {
				frac := 0.3 + 0.6*float64(current)/float64(total)
				progress(fmt.Sprintf("Processing page %d/%d", current, total), frac)
			}
		}
	}

	result, err := extractor.Extract(ctx, path, progressFn)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && cacheKey != "" {
		if err := s.cache.Store(ctx, cacheKey, result); err != nil {
			s.logger.Warn("Failed to cache extraction result", zap.Error(err))
		}
	}

	return result, nil
}
