package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(config.GetDefaults(), logger.Nop())
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

// TestAnonymizeRestore tests the full tool flow over real files
func TestAnonymizeRestore(t *testing.T) {
	svc := newTestService(t)

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	restoreDir := t.TempDir()

	original := "Contact jane@corp.com, SSN 123-45-6789, host 10.0.0.1.\n"
	inputPath := filepath.Join(inputDir, "doc.md")
	if err := os.WriteFile(inputPath, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Anonymize(context.Background(), AnonymizeRequest{
		OutputDir: outputDir,
		Directory: inputDir,
		Recursive: true,
	})
	if err != nil {
		t.Fatalf("Anonymize failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Anonymize reported failure: %s", result.Message)
	}
	if len(result.OutputPaths) != 1 {
		t.Fatalf("Expected 1 output, got %v", result.OutputPaths)
	}
	if result.VaultPath == "" {
		t.Fatal("Expected a vault path")
	}
	if _, err := os.Stat(result.VaultPath); err != nil {
		t.Fatalf("Vault not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "REPORT.md")); err != nil {
		t.Fatalf("Report not written: %v", err)
	}

	anonymized, err := os.ReadFile(result.OutputPaths[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, secret := range []string{"jane@corp.com", "123-45-6789", "10.0.0.1"} {
		if strings.Contains(string(anonymized), secret) {
			t.Errorf("Anonymized output still contains %q", secret)
		}
	}

	restoreResult, err := svc.Restore(context.Background(), RestoreRequest{
		OutputDir: restoreDir,
		Files:     result.OutputPaths,
		VaultPath: result.VaultPath,
	})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !restoreResult.Success {
		t.Fatalf("Restore reported failure: %s", restoreResult.Message)
	}

	restored, err := os.ReadFile(restoreResult.OutputPaths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(restored) != original {
		t.Errorf("Round trip mismatch:\n  got  %q\n  want %q", restored, original)
	}
}

func TestAnonymizeNoFiles(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Anonymize(context.Background(), AnonymizeRequest{
		OutputDir: t.TempDir(),
		Directory: t.TempDir(),
		Recursive: true,
	})
	if err != nil {
		t.Fatalf("Empty batch should not be a hard error: %v", err)
	}
	if result.Success {
		t.Error("Empty batch should report failure")
	}
}

func TestRestoreVaultAutoDetection(t *testing.T) {
	svc := newTestService(t)

	inputDir := t.TempDir()
	outputDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(inputDir, "doc.md"), []byte("mail a@b.co now\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Anonymize(context.Background(), AnonymizeRequest{
		OutputDir: outputDir,
		Directory: inputDir,
		Recursive: true,
	})
	if err != nil || !result.Success {
		t.Fatalf("Anonymize failed: %v / %+v", err, result)
	}

	// The anonymized files sit in outputDir/anonymized; the vault is one
	// level up and must be found without an explicit path.
	restoreResult, err := svc.Restore(context.Background(), RestoreRequest{
		OutputDir: t.TempDir(),
		Directory: filepath.Join(outputDir, "anonymized"),
		Recursive: true,
	})
	if err != nil {
		t.Fatalf("Restore with auto-detected vault failed: %v", err)
	}
	if restoreResult.VaultPath != result.VaultPath {
		t.Errorf("Auto-detected vault %q, expected %q", restoreResult.VaultPath, result.VaultPath)
	}
}

// TestSegmentService tests segmentation through the service layer
func TestSegmentService(t *testing.T) {
	svc := newTestService(t)

	inputDir := t.TempDir()
	outputDir := t.TempDir()

	var b strings.Builder
	b.WriteString("# One\n")
	b.WriteString(strings.Repeat("line of filler text for the splitter\n", 50))
	b.WriteString("# Two\n")
	b.WriteString(strings.Repeat("second part filler for the splitter\n", 50))

	inputPath := filepath.Join(inputDir, "big.md")
	if err := os.WriteFile(inputPath, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Segment(context.Background(), SegmentRequest{
		FilePath:  inputPath,
		OutputDir: outputDir,
		MinTokens: 100,
		MaxTokens: 400,
	})
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Segment reported failure: %s", result.Message)
	}
	if len(result.OutputPaths) < 2 {
		t.Errorf("Expected multiple segments, got %v", result.OutputPaths)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "SEGMENTATION_REPORT.md")); err != nil {
		t.Error("Segmentation report not written")
	}
}

func TestSplitPromptsService(t *testing.T) {
	svc := newTestService(t)

	inputDir := t.TempDir()
	outputDir := t.TempDir()

	content := "# Guide\n\n## Setup\n\nInstall things.\n\n## Usage\n\nUse things.\n"
	inputPath := filepath.Join(inputDir, "guide.md")
	if err := os.WriteFile(inputPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := svc.SplitPrompts(context.Background(), SplitRequest{
		FilePath:             inputPath,
		OutputDir:            outputDir,
		SplitLevel:           "h2",
		IncludeParentContext: true,
	})
	if err != nil {
		t.Fatalf("SplitPrompts failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("SplitPrompts reported failure: %s", result.Message)
	}
	if len(result.OutputPaths) != 2 {
		t.Fatalf("Expected 2 prompt files, got %v", result.OutputPaths)
	}

	data, err := os.ReadFile(result.OutputPaths[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Install things.") {
		t.Errorf("Prompt body missing: %q", data)
	}

	// Unsupported input type is a soft failure.
	bad, err := svc.SplitPrompts(context.Background(), SplitRequest{
		FilePath:   filepath.Join(inputDir, "guide.pdf"),
		OutputDir:  outputDir,
		SplitLevel: "h2",
	})
	if err != nil {
		t.Fatalf("Unexpected hard error: %v", err)
	}
	if bad.Success {
		t.Error("PDF input to split should report failure")
	}
}
