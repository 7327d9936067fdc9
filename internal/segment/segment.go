package segment

import (
	"fmt"
	"regexp"
	"strings"
)

// Segment is one token-bounded slice of a document.
type Segment struct {
	Content        string
	SegmentNumber  int
	TotalSegments  int
	TokenCount     int
	StartLine      int
	EndLine        int
	HeadingContext map[string]string // "h1".."h6" -> current heading text
}

// Options bounds segmentation.
type Options struct {
	MinTokens       int
	MaxTokens       int
	BreakAtHeadings []string // heading levels preferred for breaks, e.g. "h1","h2"
}

// DefaultOptions returns the standard segmentation bounds.
func DefaultOptions() Options {
	return Options{
		MinTokens:       10000,
		MaxTokens:       15000,
		BreakAtHeadings: []string{"h1", "h2"},
	}
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// EstimateTokens approximates the token count of text. Four characters per
// token is the usual rough cut for English prose.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Split divides markdown content into segments within the token bounds,
// preferring to break at the configured heading levels. Heading context is
// carried into each segment so a reader knows where it sits in the
// document.
func Split(content string, opts Options) []Segment {
	if opts.MaxTokens <= 0 {
		opts = DefaultOptions()
	}

	lines := strings.Split(content, "\n")

	preferred := make(map[int]bool)
	for _, h := range opts.BreakAtHeadings {
		if len(h) == 2 && h[0] == 'h' && h[1] >= '1' && h[1] <= '6' {
			preferred[int(h[1]-'0')] = true
		}
	}

	context := make(map[string]string)
	var segments []Segment

	var buf []string
	bufTokens := 0
	startLine := 1

	flush := func(endLine int) {
		if len(buf) == 0 {
			return
		}
		ctx := make(map[string]string, len(context))
		for k, v := range context {
			ctx[k] = v
		}
		segments = append(segments, Segment{
			Content:        strings.Join(buf, "\n"),
			TokenCount:     bufTokens,
			StartLine:      startLine,
			EndLine:        endLine,
			HeadingContext: ctx,
		})
		buf = nil
		bufTokens = 0
		startLine = endLine + 1
	}

	for i, line := range lines {
		lineNo := i + 1

		if m := headingRe.FindStringSubmatch(line); m != nil {
			level := len(m[1])

			// A preferred heading is a natural boundary once the
			// segment has grown past the minimum.
			if preferred[level] && bufTokens >= opts.MinTokens {
				flush(lineNo - 1)
			}

			// Entering a heading resets everything deeper than it.
			context[fmt.Sprintf("h%d", level)] = strings.TrimSpace(m[2])
			for deeper := level + 1; deeper <= 6; deeper++ {
				delete(context, fmt.Sprintf("h%d", deeper))
			}
		}

		lineTokens := EstimateTokens(line) + 1
		if bufTokens+lineTokens > opts.MaxTokens && bufTokens > 0 {
			flush(lineNo - 1)
		}

		buf = append(buf, line)
		bufTokens += lineTokens
	}
	flush(len(lines))

	for i := range segments {
		segments[i].SegmentNumber = i + 1
		segments[i].TotalSegments = len(segments)
	}

	return segments
}
