package restore

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

// File is one anonymized input text.
type File struct {
	ID   string
	Text string
}

// FileResult is the restored text plus the number of substitutions made.
type FileResult struct {
	ID           string
	Text         string
	Replacements int
}

// Result is the aggregate restoration outcome.
type Result struct {
	Files             []FileResult
	TotalReplacements int
}

// Pipeline substitutes synthetic values back to their originals using a
// loaded vault record. The vault is read-only here; restoration never
// mutates it.
type Pipeline struct {
	manager *vault.Manager
	logger  *logger.Logger
}

// NewPipeline creates a restoration pipeline.
func NewPipeline(manager *vault.Manager, log *logger.Logger) *Pipeline {
	return &Pipeline{
		manager: manager,
		logger:  log.WithComponent("restorer"),
	}
}

// RunPath loads the vault at path and restores the batch. Load failures
// (missing file, unparseable content, unsupported version) propagate:
// restoring without a usable mapping would silently corrupt output.
func (p *Pipeline) RunPath(ctx context.Context, files []File, vaultPath string) (*Result, error) {
	record, err := p.manager.Load(vaultPath)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, files, record)
}

// Run restores the batch against an already-loaded vault record.
func (p *Pipeline) Run(ctx context.Context, files []File, record *vault.Record) (*Result, error) {
	_, mappings := p.manager.Deserialize(record)
	reversed := vault.Invert(mappings)

	// Longest synthetic value first: a synthetic that is a substring of
	// another ("Jon" inside "Jones") must never fire before the longer
	// one has been fully substituted.
	type pair struct {
		synthetic string
		original  string
	}
	pairs := make([]pair, 0, reversed.Len())
	reversed.Each(func(synthetic, original string) {
		pairs = append(pairs, pair{synthetic: synthetic, original: original})
	})
	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].synthetic) > len(pairs[j].synthetic)
	})

	result := &Result{}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		text := f.Text
		replaced := 0
		for _, pr := range pairs {
			count := strings.Count(text, pr.synthetic)
			if count == 0 {
				continue
			}
			text = strings.ReplaceAll(text, pr.synthetic, pr.original)
			replaced += count
		}

		result.Files = append(result.Files, FileResult{
			ID:           f.ID,
			Text:         text,
			Replacements: replaced,
		})
		result.TotalReplacements += replaced

		p.logger.Debug("File restored",
			zap.String("file", f.ID),
			zap.Int("replacements", replaced),
		)
	}

	p.logger.Info("Batch restored",
		zap.Int("files", len(files)),
		zap.Int("total_replacements", result.TotalReplacements),
	)

	return result, nil
}
