package segment

import (
	"strings"
	"testing"
)

// TestSplit tests token-bounded document segmentation
func TestSplit(t *testing.T) {
	t.Run("SmallDocumentSingleSegment", func(t *testing.T) {
		segments := Split("# Title\n\nA short document.", DefaultOptions())
		if len(segments) != 1 {
			t.Fatalf("Expected 1 segment, got %d", len(segments))
		}
		if segments[0].SegmentNumber != 1 || segments[0].TotalSegments != 1 {
			t.Error("Segment numbering wrong for single segment")
		}
	})

	t.Run("BreaksAtPreferredHeading", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("# Part One\n")
		b.WriteString(strings.Repeat("some prose line with enough words in it\n", 20))
		b.WriteString("# Part Two\n")
		b.WriteString(strings.Repeat("more prose on the second part here\n", 20))

		segments := Split(b.String(), Options{
			MinTokens:       100,
			MaxTokens:       1000,
			BreakAtHeadings: []string{"h1"},
		})
		if len(segments) != 2 {
			t.Fatalf("Expected a break at the second h1, got %d segments", len(segments))
		}
		if !strings.HasPrefix(segments[1].Content, "# Part Two") {
			t.Errorf("Second segment should start at the heading, got %q", segments[1].Content[:30])
		}
	})

	t.Run("MaxTokensEnforced", func(t *testing.T) {
		content := strings.Repeat("a line of filler text for the limit\n", 200)
		segments := Split(content, Options{MinTokens: 10, MaxTokens: 100})

		if len(segments) < 2 {
			t.Fatal("Expected multiple segments under a tight limit")
		}
		for _, seg := range segments {
			// One line of overshoot is allowed by the greedy fill.
			if seg.TokenCount > 120 {
				t.Errorf("Segment %d has %d tokens, over the limit", seg.SegmentNumber, seg.TokenCount)
			}
		}
	})

	t.Run("HeadingContext", func(t *testing.T) {
		content := "# Top\n## Sub\ntext\n"
		segments := Split(content, DefaultOptions())
		ctx := segments[0].HeadingContext
		if ctx["h1"] != "Top" || ctx["h2"] != "Sub" {
			t.Errorf("Unexpected heading context: %v", ctx)
		}
	})

	t.Run("LineNumbersCoverDocument", func(t *testing.T) {
		content := strings.Repeat("filler line for coverage checking\n", 100)
		segments := Split(content, Options{MinTokens: 10, MaxTokens: 100})

		if segments[0].StartLine != 1 {
			t.Errorf("First segment should start at line 1, got %d", segments[0].StartLine)
		}
		for i := 1; i < len(segments); i++ {
			if segments[i].StartLine != segments[i-1].EndLine+1 {
				t.Errorf("Gap between segment %d and %d", i, i+1)
			}
		}
	})
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("12345678"); got != 2 {
		t.Errorf("Expected 2 tokens for 8 chars, got %d", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("Expected 0 tokens for empty text, got %d", got)
	}
}
