package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/anonymize"
	"github.com/inkognito-mcp/inkognito/internal/entity"
	"github.com/inkognito-mcp/inkognito/internal/files"
	"github.com/inkognito-mcp/inkognito/internal/report"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

// AnonymizeRequest describes one anonymization batch.
type AnonymizeRequest struct {
	OutputDir      string
	Files          []string
	Directory      string
	Patterns       []string
	Recursive      bool
	EntityTypes    []string
	ScoreThreshold float64
	DateShiftDays  int
	// SeedVault resumes a prior session: its mappings are reused, never
	// regenerated.
	SeedVault string
	Progress  ProgressFunc
}

// Anonymize runs the full anonymization tool: discover files, extract
// PDFs, run the pipeline, write outputs, persist the vault, write the
// report.
func (s *Service) Anonymize(ctx context.Context, req AnonymizeRequest) (*ProcessingResult, error) {
	reportProgress(req.Progress, "Scanning for documents...", 0.1)

	patterns := req.Patterns
	if len(patterns) == 0 {
		patterns = files.DefaultPatterns
	}

	inputs, err := files.Find(req.Directory, req.Files, patterns, req.Recursive)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return failure("No files found matching the specified patterns"), nil
	}

	reportProgress(req.Progress, fmt.Sprintf("Found %d files to anonymize", len(inputs)), 0.2)

	anonDir := filepath.Join(req.OutputDir, "anonymized")
	if err := files.EnsureDir(anonDir); err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	var seed *vault.Mappings
	if req.SeedVault != "" {
		record, err := s.vaults.Load(req.SeedVault)
		if err != nil {
			return nil, err
		}
		_, seed = s.vaults.Deserialize(record)
	}

	// Read or extract every input up front; extraction failures skip the
	// file and are reported alongside detection failures.
	var batch []anonymize.File
	var failed []string
	for i, path := range inputs {
		frac := 0.2 + 0.2*float64(i)/float64(len(inputs))
		reportProgress(req.Progress, fmt.Sprintf("Reading %s", filepath.Base(path)), frac)

		text, err := s.readDocument(ctx, path, req.Progress)
		if err != nil {
			s.logger.Warn("Skipping unreadable document",
				zap.String("file", path),
				zap.Error(err),
			)
			failed = append(failed, path)
			continue
		}
		batch = append(batch, anonymize.File{ID: path, Text: text})
	}

	opts := anonymize.Options{
		EntityTypes:    parseEntityTypes(req.EntityTypes),
		ScoreThreshold: req.ScoreThreshold,
		DateShiftDays:  req.DateShiftDays,
	}
	if opts.ScoreThreshold == 0 {
		opts.ScoreThreshold = s.cfg.Anonymizer.ScoreThreshold
	}
	if opts.DateShiftDays == 0 {
		opts.DateShiftDays = s.cfg.Anonymizer.DateShiftDays
	}
	if opts.EntityTypes == nil {
		opts.EntityTypes = parseEntityTypes(s.cfg.Anonymizer.EntityTypes)
	}

	pipeline := anonymize.NewPipeline(opts, s.detector, s.logger)

	result, err := pipeline.Run(ctx, batch, seed)
	if err != nil {
		return nil, err
	}

	var outputs []string
	for _, fr := range result.Files {
		if fr.Err != nil {
			failed = append(failed, fr.ID)
			continue
		}
		outName := files.Stem(fr.ID) + ".md"
		outPath := filepath.Join(anonDir, outName)
		if err := os.WriteFile(outPath, []byte(fr.Text), 0o644); err != nil {
			return nil, fmt.Errorf("write anonymized output: %w", err)
		}
		outputs = append(outputs, outPath)
	}

	reportProgress(req.Progress, "Saving anonymization vault...", 0.9)

	vaultPath := filepath.Join(req.OutputDir, "vault.json")
	if err := s.vaults.Save(vaultPath, result.Mappings, result.DateOffset, len(inputs), result.Statistics); err != nil {
		return nil, err
	}

	reportPath := filepath.Join(req.OutputDir, "REPORT.md")
	if err := report.Write(reportPath, report.Anonymization(req.OutputDir, len(inputs), failed, result.Statistics)); err != nil {
		return nil, err
	}

	reportProgress(req.Progress, "Anonymization complete!", 1.0)

	stats := make(map[string]interface{}, len(result.Statistics)+1)
	for k, v := range result.Statistics {
		stats[k] = v
	}
	stats["date_offset"] = result.DateOffset

	return &ProcessingResult{
		Success:     true,
		OutputPaths: outputs,
		Statistics:  stats,
		Message:     fmt.Sprintf("Successfully anonymized %d files", len(outputs)),
		VaultPath:   vaultPath,
		Failed:      failed,
	}, nil
}

// readDocument returns the text of an input, converting documents that
// need extraction through the connector registry (and cache when enabled).
func (s *Service) readDocument(ctx context.Context, path string, progress ProgressFunc) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".md" || ext == ".markdown" || ext == ".txt" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	result, err := s.extractDocument(ctx, path, "", progress)
	if err != nil {
		return "", err
	}
	return result.Markdown, nil
}

func parseEntityTypes(names []string) []entity.Type {
	var types []entity.Type
	for _, name := range names {
		if name == "all" {
			return nil // nil allow-list means the full closed set
		}
		types = append(types, entity.Parse(name))
	}
	return types
}
