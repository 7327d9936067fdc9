package restore

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkognito-mcp/inkognito/internal/anonymize"
	"github.com/inkognito-mcp/inkognito/internal/entity"
	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

func record(t *testing.T, pairs map[string]string) *vault.Record {
	t.Helper()
	m := vault.NewMappings()
	for original, synthetic := range pairs {
		m.Set(original, synthetic)
	}
	return vault.NewManager(logger.Nop()).Serialize(m, 0, 1, nil)
}

// TestRun tests restoration against a loaded vault record
func TestRun(t *testing.T) {
	p := NewPipeline(vault.NewManager(logger.Nop()), logger.Nop())

	t.Run("BasicRestore", func(t *testing.T) {
		rec := record(t, map[string]string{"John Smith": "Alice Brown"})

		result, err := p.Run(context.Background(), []File{
			{ID: "a.md", Text: "Alice Brown wrote this. Alice Brown approved it."},
		}, rec)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		f := result.Files[0]
		if f.Text != "John Smith wrote this. John Smith approved it." {
			t.Errorf("Unexpected restored text: %q", f.Text)
		}
		if f.Replacements != 2 {
			t.Errorf("Expected 2 replacements, got %d", f.Replacements)
		}
		if result.TotalReplacements != 2 {
			t.Errorf("Expected total 2, got %d", result.TotalReplacements)
		}
	})

	t.Run("SubstringSafety", func(t *testing.T) {
		// "Jon" is a substring of "Jones"; the longer synthetic must be
		// restored first or "Jones" would be corrupted.
		rec := record(t, map[string]string{
			"Mr. Short": "Jon",
			"Mr. Long":  "Jones",
		})

		result, err := p.Run(context.Background(), []File{
			{ID: "a.md", Text: "Jon spoke with Jones."},
		}, rec)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if result.Files[0].Text != "Mr. Short spoke with Mr. Long." {
			t.Errorf("Substring collision mishandled: %q", result.Files[0].Text)
		}
	})

	t.Run("NoMatches", func(t *testing.T) {
		rec := record(t, map[string]string{"John": "Alice"})

		result, err := p.Run(context.Background(), []File{
			{ID: "a.md", Text: "Nothing to restore here."},
		}, rec)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.TotalReplacements != 0 {
			t.Errorf("Expected 0 replacements, got %d", result.TotalReplacements)
		}
	})
}

func TestRunPath(t *testing.T) {
	mg := vault.NewManager(logger.Nop())
	p := NewPipeline(mg, logger.Nop())
	dir := t.TempDir()

	t.Run("MissingVault", func(t *testing.T) {
		_, err := p.RunPath(context.Background(), nil, filepath.Join(dir, "vault.json"))
		if !errors.Is(err, vault.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SavedVaultRestores", func(t *testing.T) {
		path := filepath.Join(dir, "vault.json")
		m := vault.NewMappings()
		m.Set("John Smith", "Alice Brown")
		if err := mg.Save(path, m, 0, 1, nil); err != nil {
			t.Fatal(err)
		}

		result, err := p.RunPath(context.Background(), []File{
			{ID: "a.md", Text: "Alice Brown was here."},
		}, path)
		if err != nil {
			t.Fatalf("RunPath failed: %v", err)
		}
		if result.Files[0].Text != "John Smith was here." {
			t.Errorf("Unexpected text: %q", result.Files[0].Text)
		}
	})
}

// TestRoundTrip anonymizes a batch and restores it back to the originals.
func TestRoundTrip(t *testing.T) {
	det := &roundTripDetector{}
	anon := anonymize.NewPipeline(anonymize.Options{Seed: 1}, det, logger.Nop())

	original := "Contact John Smith at john@corp.com or visit Berlin."
	batch, err := anon.Run(context.Background(), []anonymize.File{{ID: "doc", Text: original}}, nil)
	if err != nil {
		t.Fatalf("Anonymize failed: %v", err)
	}
	if batch.Files[0].Text == original {
		t.Fatal("Sanity: anonymization changed nothing")
	}

	mg := vault.NewManager(logger.Nop())
	rec := mg.Serialize(batch.Mappings, batch.DateOffset, 1, batch.Statistics)

	restored, err := NewPipeline(mg, logger.Nop()).Run(context.Background(), []File{
		{ID: "doc", Text: batch.Files[0].Text},
	}, rec)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Files[0].Text != original {
		t.Errorf("Round trip mismatch:\n  got  %q\n  want %q", restored.Files[0].Text, original)
	}
}

type roundTripDetector struct{}

func (roundTripDetector) Scan(ctx context.Context, text string) ([]entity.Detection, error) {
	fixed := []entity.Detection{
		{Type: entity.Person, Value: "John Smith", Confidence: 0.9},
		{Type: entity.EmailAddress, Value: "john@corp.com", Confidence: 0.95},
		{Type: entity.Location, Value: "Berlin", Confidence: 0.8},
	}
	var out []entity.Detection
	for _, d := range fixed {
		if strings.Contains(text, d.Value) {
			out = append(out, d)
		}
	}
	return out, nil
}
