package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inkognito-mcp/inkognito/internal/files"
	"github.com/inkognito-mcp/inkognito/internal/report"
	"github.com/inkognito-mcp/inkognito/internal/restore"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

// RestoreRequest describes one restoration batch.
type RestoreRequest struct {
	OutputDir string
	Files     []string
	Directory string
	VaultPath string // auto-detected next to the inputs when empty
	Patterns  []string
	Recursive bool
	Progress  ProgressFunc
}

// Restore loads the vault and substitutes original values back into
// anonymized documents. Vault problems are fatal: restoring without a
// usable mapping would silently corrupt output.
func (s *Service) Restore(ctx context.Context, req RestoreRequest) (*ProcessingResult, error) {
	reportProgress(req.Progress, "Scanning for anonymized documents...", 0.1)

	patterns := req.Patterns
	if len(patterns) == 0 {
		patterns = []string{"*.md"}
	}

	inputs, err := files.Find(req.Directory, req.Files, patterns, req.Recursive)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return failure("No anonymized files found"), nil
	}

	vaultPath := req.VaultPath
	if vaultPath == "" {
		vaultPath = findVault(req.Directory, inputs)
	}
	if vaultPath == "" {
		return nil, fmt.Errorf("%w: no vault.json near the input files", vault.ErrNotFound)
	}

	reportProgress(req.Progress, "Loading vault data...", 0.2)

	restoredDir := filepath.Join(req.OutputDir, "restored")
	if err := files.EnsureDir(restoredDir); err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	var batch []restore.File
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		batch = append(batch, restore.File{ID: path, Text: string(data)})
	}

	pipeline := restore.NewPipeline(s.vaults, s.logger)
	result, err := pipeline.RunPath(ctx, batch, vaultPath)
	if err != nil {
		return nil, err
	}

	var outputs []string
	for i, fr := range result.Files {
		frac := 0.2 + 0.7*float64(i)/float64(len(result.Files))
		reportProgress(req.Progress, fmt.Sprintf("Restoring %s", filepath.Base(fr.ID)), frac)

		outPath := filepath.Join(restoredDir, filepath.Base(fr.ID))
		if err := os.WriteFile(outPath, []byte(fr.Text), 0o644); err != nil {
			return nil, fmt.Errorf("write restored output: %w", err)
		}
		outputs = append(outputs, outPath)
	}

	reportPath := filepath.Join(req.OutputDir, "RESTORATION_REPORT.md")
	if err := report.Write(reportPath, report.Restoration(req.OutputDir, vaultPath, len(result.Files), result.TotalReplacements)); err != nil {
		return nil, err
	}

	reportProgress(req.Progress, "Restoration complete!", 1.0)

	return &ProcessingResult{
		Success:     true,
		OutputPaths: outputs,
		Statistics: map[string]interface{}{
			"files_restored":     len(result.Files),
			"total_replacements": result.TotalReplacements,
		},
		Message:   fmt.Sprintf("Successfully restored %d files", len(result.Files)),
		VaultPath: vaultPath,
	}, nil
}

// findVault looks for vault.json in the input directory, then its parent,
// then next to the first explicit file.
func findVault(directory string, inputs []string) string {
	var candidates []string
	if directory != "" {
		candidates = append(candidates,
			filepath.Join(directory, "vault.json"),
			filepath.Join(filepath.Dir(directory), "vault.json"),
		)
	} else if len(inputs) > 0 {
		dir := filepath.Dir(inputs[0])
		candidates = append(candidates,
			filepath.Join(dir, "vault.json"),
			filepath.Join(filepath.Dir(dir), "vault.json"),
		)
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
