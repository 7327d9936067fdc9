package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkognito-mcp/inkognito/internal/files"
	"github.com/inkognito-mcp/inkognito/internal/report"
	"github.com/inkognito-mcp/inkognito/internal/segment"
)

// SegmentRequest describes one segmentation run.
type SegmentRequest struct {
	FilePath        string
	OutputDir       string
	MaxTokens       int
	MinTokens       int
	BreakAtHeadings []string
	Progress        ProgressFunc
}

// SplitRequest describes one prompt-splitting run.
type SplitRequest struct {
	FilePath             string
	OutputDir            string
	SplitLevel           string
	IncludeParentContext bool
	PromptTemplate       string
	Progress             ProgressFunc
}

func readMarkdown(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".md" && ext != ".markdown" && ext != ".txt" {
		return "", fmt.Errorf("only markdown or text files can be processed: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// Segment splits a large markdown document into token-bounded chunks.
func (s *Service) Segment(ctx context.Context, req SegmentRequest) (*ProcessingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reportProgress(req.Progress, "Reading document...", 0.1)

	content, err := readMarkdown(req.FilePath)
	if err != nil {
		return failure("%v", err), nil
	}

	opts := segment.DefaultOptions()
	if req.MinTokens > 0 {
		opts.MinTokens = req.MinTokens
	}
	if req.MaxTokens > 0 {
		opts.MaxTokens = req.MaxTokens
	}
	if len(req.BreakAtHeadings) > 0 {
		opts.BreakAtHeadings = req.BreakAtHeadings
	}

	reportProgress(req.Progress, "Analyzing document structure...", 0.2)
	segments := segment.Split(content, opts)

	segDir := filepath.Join(req.OutputDir, "segments")
	if err := files.EnsureDir(segDir); err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	base := files.Stem(req.FilePath)
	sourceName := filepath.Base(req.FilePath)

	var outputs []string
	minTok, maxTok, sumTok := 0, 0, 0
	for i, seg := range segments {
		frac := 0.3 + 0.6*float64(i)/float64(len(segments))
		reportProgress(req.Progress, fmt.Sprintf("Writing segment %d of %d...", seg.SegmentNumber, seg.TotalSegments), frac)

		name := fmt.Sprintf("%s_%03d_of_%03d.md", base, seg.SegmentNumber, seg.TotalSegments)
		path := filepath.Join(segDir, name)

		header := fmt.Sprintf(
			"<!-- Segment %d of %d -->\n<!-- Original file: %s -->\n<!-- Tokens: ~%d -->\n<!-- Lines: %d-%d -->\n\n",
			seg.SegmentNumber, seg.TotalSegments, sourceName, seg.TokenCount, seg.StartLine, seg.EndLine,
		)
		if err := os.WriteFile(path, []byte(header+seg.Content+"\n"), 0o644); err != nil {
			return nil, fmt.Errorf("write segment: %w", err)
		}
		outputs = append(outputs, path)

		sumTok += seg.TokenCount
		if minTok == 0 || seg.TokenCount < minTok {
			minTok = seg.TokenCount
		}
		if seg.TokenCount > maxTok {
			maxTok = seg.TokenCount
		}
	}

	reportPath := filepath.Join(req.OutputDir, "SEGMENTATION_REPORT.md")
	if err := report.Write(reportPath, report.Segmentation(sourceName, req.OutputDir, segments, opts.MinTokens, opts.MaxTokens)); err != nil {
		return nil, err
	}

	reportProgress(req.Progress, "Segmentation complete!", 1.0)

	return &ProcessingResult{
		Success:     true,
		OutputPaths: outputs,
		Statistics: map[string]interface{}{
			"total_segments": len(segments),
			"average_tokens": sumTok / max(len(segments), 1),
			"min_tokens":     minTok,
			"max_tokens":     maxTok,
		},
		Message: fmt.Sprintf("Successfully segmented into %d files", len(segments)),
	}, nil
}

// SplitPrompts splits structured markdown into individual prompt files at
// a heading level.
func (s *Service) SplitPrompts(ctx context.Context, req SplitRequest) (*ProcessingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reportProgress(req.Progress, "Reading document...", 0.1)

	content, err := readMarkdown(req.FilePath)
	if err != nil {
		return failure("%v", err), nil
	}

	level := req.SplitLevel
	if level == "" {
		level = "h2"
	}

	reportProgress(req.Progress, fmt.Sprintf("Splitting by %s headings...", level), 0.2)

	prompts, err := segment.SplitPrompts(content, segment.PromptOptions{
		SplitLevel:           level,
		IncludeParentContext: req.IncludeParentContext,
		Template:             req.PromptTemplate,
	})
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return failure("No %s headings found in document", level), nil
	}

	promptDir := filepath.Join(req.OutputDir, "prompts")
	if err := files.EnsureDir(promptDir); err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	base := files.Stem(req.FilePath)
	sourceName := filepath.Base(req.FilePath)

	var outputs []string
	for i, p := range prompts {
		frac := 0.3 + 0.6*float64(i)/float64(len(prompts))
		reportProgress(req.Progress, fmt.Sprintf("Writing prompt %d of %d...", p.PromptNumber, p.TotalPrompts), frac)

		name := fmt.Sprintf("%s_%03d_%s.md", base, p.PromptNumber, safeFileName(p.Heading))
		path := filepath.Join(promptDir, name)

		var b strings.Builder
		fmt.Fprintf(&b, "<!-- Prompt %d of %d -->\n", p.PromptNumber, p.TotalPrompts)
		fmt.Fprintf(&b, "<!-- Original file: %s -->\n", sourceName)
		fmt.Fprintf(&b, "<!-- Heading: %s -->\n", p.Heading)
		fmt.Fprintf(&b, "<!-- Level: H%d -->\n", p.Level)
		if p.ParentHeading != "" {
			fmt.Fprintf(&b, "<!-- Parent: %s -->\n", p.ParentHeading)
		}
		b.WriteString("\n")
		b.WriteString(p.Render(req.PromptTemplate))
		b.WriteString("\n")

		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return nil, fmt.Errorf("write prompt: %w", err)
		}
		outputs = append(outputs, path)
	}

	reportProgress(req.Progress, "Prompt generation complete!", 1.0)

	return &ProcessingResult{
		Success:     true,
		OutputPaths: outputs,
		Statistics: map[string]interface{}{
			"total_prompts": len(prompts),
			"split_level":   level,
		},
		Message: fmt.Sprintf("Successfully created %d prompt files", len(prompts)),
	}, nil
}

// safeFileName reduces a heading to filesystem-safe characters.
func safeFileName(heading string) string {
	var b strings.Builder
	for _, r := range heading {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	name := b.String()
	if len(name) > 50 {
		name = name[:50]
	}
	return name
}
