// Package report renders the human-readable markdown summaries written
// alongside tool output.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/inkognito-mcp/inkognito/internal/segment"
)

// Anonymization renders the batch summary written next to anonymized
// output.
func Anonymization(outputDir string, fileCount int, failed []string, statistics map[string]int) string {
	var b strings.Builder

	b.WriteString("# Anonymization Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Files processed: %d\n", fileCount)
	if len(failed) > 0 {
		fmt.Fprintf(&b, "- Files failed: %d\n", len(failed))
	}
	fmt.Fprintf(&b, "- Output directory: %s\n", outputDir)
	b.WriteString("- Vault location: vault.json\n\n")

	b.WriteString("## Statistics\n")
	types := make([]string, 0, len(statistics))
	for t := range statistics {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(&b, "- %s: %d\n", t, statistics[t])
	}

	if len(failed) > 0 {
		b.WriteString("\n## Failures\n")
		for _, f := range failed {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	b.WriteString("\n## Consistency\n")
	b.WriteString("All occurrences of the same entity received the same replacement across all documents.\n")
	b.WriteString("To restore original values, use the restore tool with the vault.json file.\n")

	return b.String()
}

// Restoration renders the restore summary.
func Restoration(outputDir, vaultPath string, fileCount, totalReplacements int) string {
	var b strings.Builder

	b.WriteString("# Restoration Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Files restored: %d\n", fileCount)
	fmt.Fprintf(&b, "- Total replacements: %d\n", totalReplacements)
	fmt.Fprintf(&b, "- Vault used: %s\n", vaultPath)
	fmt.Fprintf(&b, "- Output directory: %s\n", outputDir)
	b.WriteString("\n## Details\n")
	b.WriteString("All synthetic values have been replaced with their original content.\n")

	return b.String()
}

// Segmentation renders the segmentation summary.
func Segmentation(sourceName, outputDir string, segments []segment.Segment, minTokens, maxTokens int) string {
	var b strings.Builder

	b.WriteString("# Segmentation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Source file: %s\n", sourceName)
	fmt.Fprintf(&b, "- Total segments: %d\n", len(segments))
	fmt.Fprintf(&b, "- Token range: %d - %d\n", minTokens, maxTokens)
	fmt.Fprintf(&b, "- Output directory: %s\n", outputDir)

	b.WriteString("\n## Segments Created\n")
	for _, s := range segments {
		fmt.Fprintf(&b, "\n### Segment %d\n", s.SegmentNumber)
		fmt.Fprintf(&b, "- Tokens: ~%d\n", s.TokenCount)
		fmt.Fprintf(&b, "- Lines: %d-%d\n", s.StartLine, s.EndLine)
		for level := 1; level <= 6; level++ {
			if heading, ok := s.HeadingContext[fmt.Sprintf("h%d", level)]; ok {
				fmt.Fprintf(&b, "- H%d: %s\n", level, heading)
			}
		}
	}

	return b.String()
}

// Write saves a report to path.
func Write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
