package generate

import (
	"strings"
	"testing"

	"github.com/inkognito-mcp/inkognito/internal/entity"
	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/vault"
)

// TestGenerate tests replacement generation and table consistency
func TestGenerate(t *testing.T) {
	t.Run("ConsistentWithinSession", func(t *testing.T) {
		g := New(1, logger.Nop())
		table := vault.NewMappings()

		first, err := g.Generate(entity.Person, "John Smith", table)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		second, err := g.Generate(entity.Person, "John Smith", table)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if first != second {
			t.Errorf("Same original should reuse the replacement: %q vs %q", first, second)
		}
		if table.Len() != 1 {
			t.Errorf("Expected 1 table entry, got %d", table.Len())
		}
	})

	t.Run("TableKeyedByValueOnly", func(t *testing.T) {
		g := New(1, logger.Nop())
		table := vault.NewMappings()

		asPerson, _ := g.Generate(entity.Person, "Acme", table)
		asOrg, _ := g.Generate(entity.Organization, "Acme", table)
		if asPerson != asOrg {
			t.Errorf("Same value under a different type should reuse the mapping: %q vs %q", asPerson, asOrg)
		}
	})

	t.Run("SeededTableRespected", func(t *testing.T) {
		g := New(1, logger.Nop())
		table := vault.NewMappings()
		table.Set("John Smith", "Resumed Name")

		got, _ := g.Generate(entity.Person, "John Smith", table)
		if got != "Resumed Name" {
			t.Errorf("Seeded mapping should never be regenerated, got %q", got)
		}
	})

	t.Run("EmptyValue", func(t *testing.T) {
		g := New(1, logger.Nop())
		if _, err := g.Generate(entity.Person, "", vault.NewMappings()); err != ErrEmptyValue {
			t.Errorf("Expected ErrEmptyValue, got %v", err)
		}
	})

	t.Run("GenericFallback", func(t *testing.T) {
		g := New(1, logger.Nop())
		got, err := g.Generate(entity.Unknown, "something", vault.NewMappings())
		if err != nil {
			t.Fatalf("Fallback should not error: %v", err)
		}
		if got != "REDACTED_UNKNOWN" {
			t.Errorf("Expected generic token, got %q", got)
		}
	})

	t.Run("DistinctValuesDistinctReplacements", func(t *testing.T) {
		g := New(1, logger.Nop())
		table := vault.NewMappings()

		a, _ := g.Generate(entity.EmailAddress, "a@x.com", table)
		b, _ := g.Generate(entity.EmailAddress, "b@x.com", table)
		if a == b {
			t.Errorf("Distinct originals should get distinct replacements: %q", a)
		}
		if !strings.Contains(a, "@") {
			t.Errorf("Email replacement should look like an email: %q", a)
		}
	})
}

func TestDateOffset(t *testing.T) {
	g := New(7, logger.Nop())

	t.Run("WithinWindow", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			off := g.DateOffset(30)
			if off < -30 || off > 30 {
				t.Fatalf("Offset %d outside [-30, 30]", off)
			}
		}
	})

	t.Run("ZeroWindow", func(t *testing.T) {
		if off := g.DateOffset(0); off != 0 {
			t.Errorf("Zero window should give zero offset, got %d", off)
		}
	})
}
