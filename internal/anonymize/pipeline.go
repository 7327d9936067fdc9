package anonymize

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/detect"
	"github.com/inkognito-mcp/inkognito/internal/entity"
	"github.com/inkognito-mcp/inkognito/internal/generate"
	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

// Options is the immutable pipeline configuration, fixed at construction.
type Options struct {
	// EntityTypes is the allow-list of types to act on. Empty means the
	// full closed set.
	EntityTypes []entity.Type
	// ScoreThreshold discards detections below this confidence.
	ScoreThreshold float64
	// DateShiftDays bounds the random batch date offset.
	DateShiftDays int
	// Seed fixes the generator seed; zero draws a random one per Run.
	Seed uint64
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		ScoreThreshold: 0.5,
		DateShiftDays:  365,
	}
}

// File is one batch input.
type File struct {
	ID   string
	Text string
}

// FileResult is the per-file outcome: anonymized text, or the detection
// failure that made the pipeline skip the file.
type FileResult struct {
	ID   string
	Text string
	Err  error
}

// Result is the aggregate batch outcome.
type Result struct {
	Files      []FileResult
	Failed     []string
	Statistics map[string]int // occurrences per entity type, whole batch
	Mappings   *vault.Mappings
	DateOffset int
}

// Pipeline orchestrates detection, placeholder substitution and synthetic
// value generation across a batch of files. One Pipeline may run many
// batches; each Run owns its session table and generator seed, so distinct
// invocations are fully independent.
type Pipeline struct {
	opts     Options
	detector detect.Detector
	logger   *logger.Logger
}

// NewPipeline creates an anonymization pipeline.
func NewPipeline(opts Options, detector detect.Detector, log *logger.Logger) *Pipeline {
	if opts.ScoreThreshold == 0 {
		opts.ScoreThreshold = 0.5
	}
	return &Pipeline{
		opts:     opts,
		detector: detector,
		logger:   log.WithComponent("anonymizer"),
	}
}

// Run anonymizes the batch in input order. seed optionally resumes a prior
// session: pairs already in it are never regenerated. A detector failure
// skips that file only; output already produced is never discarded.
//
// Cancellation is honored between files. Files completed before the
// context was cancelled remain valid in the returned result, alongside the
// context error.
func (p *Pipeline) Run(ctx context.Context, files []File, seed *vault.Mappings) (*Result, error) {
	gen := generate.New(p.opts.Seed, p.logger)

	table := vault.NewMappings()
	table.Merge(seed)

	result := &Result{
		Statistics: make(map[string]int),
		Mappings:   table,
		DateOffset: gen.DateOffset(p.opts.DateShiftDays),
	}

	allowed := p.allowSet()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		text, err := p.processFile(ctx, f, gen, table, allowed, result.Statistics)
		if err != nil {
			p.logger.Warn("Skipping file after detection failure",
				zap.String("file", f.ID),
				zap.Error(err),
			)
			result.Files = append(result.Files, FileResult{ID: f.ID, Err: err})
			result.Failed = append(result.Failed, f.ID)
			continue
		}

		result.Files = append(result.Files, FileResult{ID: f.ID, Text: text})
	}

	p.logger.Info("Batch anonymized",
		zap.Int("files", len(files)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("mappings", table.Len()),
		zap.Int("date_offset", result.DateOffset),
	)

	return result, nil
}

// processFile runs the two-phase substitution for one file: every retained
// detection's occurrences become a delimited placeholder first, then each
// distinct placeholder resolves to its synthetic value. The intermediate
// phase keeps a generated value from ever being re-matched by a later
// detection's substitution.
func (p *Pipeline) processFile(
	ctx context.Context,
	f File,
	gen *generate.Generator,
	table *vault.Mappings,
	allowed map[entity.Type]bool,
	stats map[string]int,
) (string, error) {
	detections, err := p.detector.Scan(ctx, f.Text)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", f.ID, err)
	}

	retained := make([]entity.Detection, 0, len(detections))
	seen := make(map[string]bool)
	for _, det := range detections {
		if det.Confidence < p.opts.ScoreThreshold {
			continue
		}
		if det.Value == "" {
			continue
		}
		if len(allowed) > 0 && !allowed[det.Type] {
			continue
		}
		// First detection of a value wins; the table is keyed by value.
		if seen[det.Value] {
			continue
		}
		seen[det.Value] = true
		retained = append(retained, det)
	}

	// Longer originals first, so a value that contains another detected
	// value is swapped out before its substring can match.
	sort.SliceStable(retained, func(i, j int) bool {
		return len(retained[i].Value) > len(retained[j].Value)
	})

	type placeholderEntry struct {
		token     string
		detection entity.Detection
	}

	text := f.Text
	var entries []placeholderEntry

	for i, det := range retained {
		count := strings.Count(text, det.Value)
		if count == 0 {
			continue
		}

		// Fixed delimiters and a per-value ordinal: tokens cannot
		// prefix-collide with one another.
		token := fmt.Sprintf("[REDACTED_%s_%d]", det.Type, i)
		text = strings.ReplaceAll(text, det.Value, token)

		stats[string(det.Type)] += count
		entries = append(entries, placeholderEntry{token: token, detection: det})
	}

	for _, e := range entries {
		synthetic, err := gen.Generate(e.detection.Type, e.detection.Value, table)
		if err != nil {
			return "", fmt.Errorf("generate replacement for %s: %w", f.ID, err)
		}
		text = strings.ReplaceAll(text, e.token, synthetic)
	}

	p.logger.Debug("File anonymized",
		zap.String("file", f.ID),
		zap.Int("detections", len(retained)),
		zap.Int("replaced_values", len(entries)),
	)

	return text, nil
}

// allowSet expands the configured allow-list into a membership set.
func (p *Pipeline) allowSet() map[entity.Type]bool {
	if len(p.opts.EntityTypes) == 0 {
		return nil
	}
	set := make(map[entity.Type]bool, len(p.opts.EntityTypes))
	for _, t := range p.opts.EntityTypes {
		set[t] = true
	}
	return set
}
