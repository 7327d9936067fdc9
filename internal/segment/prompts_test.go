package segment

import (
	"strings"
	"testing"
)

const promptDoc = `# Guide

Intro text before any section.

## Setup

Install the dependencies.

### Details

Run the installer.

## Usage

Call the tool.

# Appendix

## Notes

Extra material.
`

// TestSplitPrompts tests heading-level prompt extraction
func TestSplitPrompts(t *testing.T) {
	t.Run("SplitAtH2", func(t *testing.T) {
		prompts, err := SplitPrompts(promptDoc, PromptOptions{SplitLevel: "h2", IncludeParentContext: true})
		if err != nil {
			t.Fatalf("SplitPrompts failed: %v", err)
		}
		if len(prompts) != 3 {
			t.Fatalf("Expected 3 prompts, got %d", len(prompts))
		}

		if prompts[0].Heading != "Setup" {
			t.Errorf("First prompt heading: %q", prompts[0].Heading)
		}
		if prompts[0].ParentHeading != "Guide" {
			t.Errorf("First prompt parent: %q", prompts[0].ParentHeading)
		}
		if !strings.Contains(prompts[0].Content, "### Details") {
			t.Error("Deeper headings should stay in the section body")
		}
		if prompts[2].ParentHeading != "Appendix" {
			t.Errorf("Parent should track the latest h1, got %q", prompts[2].ParentHeading)
		}
		if prompts[0].PromptNumber != 1 || prompts[0].TotalPrompts != 3 {
			t.Error("Prompt numbering wrong")
		}
	})

	t.Run("NoParentContext", func(t *testing.T) {
		prompts, err := SplitPrompts(promptDoc, PromptOptions{SplitLevel: "h2"})
		if err != nil {
			t.Fatal(err)
		}
		if prompts[0].ParentHeading != "" {
			t.Error("Parent context should be omitted when not requested")
		}
	})

	t.Run("NoHeadingsAtLevel", func(t *testing.T) {
		prompts, err := SplitPrompts("plain text, no headings", PromptOptions{SplitLevel: "h2"})
		if err != nil {
			t.Fatal(err)
		}
		if len(prompts) != 0 {
			t.Errorf("Expected no prompts, got %d", len(prompts))
		}
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		if _, err := SplitPrompts(promptDoc, PromptOptions{SplitLevel: "h7"}); err == nil {
			t.Error("Expected error for invalid level")
		}
		if _, err := SplitPrompts(promptDoc, PromptOptions{SplitLevel: ""}); err == nil {
			t.Error("Expected error for empty level")
		}
	})
}

func TestPromptRender(t *testing.T) {
	p := Prompt{Heading: "Setup", ParentHeading: "Guide", Level: 2, Content: "body"}

	t.Run("NoTemplate", func(t *testing.T) {
		if got := p.Render(""); got != "body" {
			t.Errorf("Expected raw content, got %q", got)
		}
	})

	t.Run("Template", func(t *testing.T) {
		got := p.Render("{parent} > {heading} (h{level}):\n{content}")
		want := "Guide > Setup (h2):\nbody"
		if got != want {
			t.Errorf("Render = %q, want %q", got, want)
		}
	})
}
