package detect

import (
	"context"
	"testing"

	"github.com/inkognito-mcp/inkognito/internal/entity"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// TestPatternDetector tests the built-in pattern detection backend
func TestPatternDetector(t *testing.T) {
	t.Run("AllEnablesEverything", func(t *testing.T) {
		d, err := NewPatternDetector([]string{"all"}, logger.Nop())
		if err != nil {
			t.Fatalf("NewPatternDetector failed: %v", err)
		}
		if len(d.EnabledRules()) != len(DefaultRules()) {
			t.Errorf("Expected all %d rules enabled, got %d", len(DefaultRules()), len(d.EnabledRules()))
		}
	})

	t.Run("SelectByRuleName", func(t *testing.T) {
		d, err := NewPatternDetector([]string{"email"}, logger.Nop())
		if err != nil {
			t.Fatal(err)
		}
		enabled := d.EnabledRules()
		if len(enabled) != 1 || enabled[0] != "email" {
			t.Errorf("Expected only email enabled, got %v", enabled)
		}
	})

	t.Run("SelectByEntityType", func(t *testing.T) {
		d, err := NewPatternDetector([]string{"CRYPTO"}, logger.Nop())
		if err != nil {
			t.Fatal(err)
		}
		// Both crypto rules produce CRYPTO.
		if len(d.EnabledRules()) != 2 {
			t.Errorf("Expected eth and btc rules, got %v", d.EnabledRules())
		}
	})

	t.Run("UnknownDetectorName", func(t *testing.T) {
		if _, err := NewPatternDetector([]string{"telepathy"}, logger.Nop()); err == nil {
			t.Error("Expected error for unknown detector name")
		}
	})

	t.Run("TypeWithoutRuleIsAccepted", func(t *testing.T) {
		// PERSON has no pattern rule but is a valid allow-list entry;
		// it is simply not detectable by this backend.
		d, err := NewPatternDetector([]string{"PERSON", "email"}, logger.Nop())
		if err != nil {
			t.Fatalf("Valid entity type should not fail: %v", err)
		}
		if len(d.EnabledRules()) != 1 {
			t.Errorf("Expected only email enabled, got %v", d.EnabledRules())
		}
	})
}

// TestScan tests detection output
func TestScan(t *testing.T) {
	d, err := NewPatternDetector([]string{"all"}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("StructuredIdentifiers", func(t *testing.T) {
		text := "Mail jane@corp.com, SSN 123-45-6789, server 10.0.0.1, see https://example.com/x."

		detections, err := d.Scan(context.Background(), text)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}

		byType := make(map[entity.Type]string)
		for _, det := range detections {
			byType[det.Type] = det.Value
		}

		if byType[entity.EmailAddress] != "jane@corp.com" {
			t.Errorf("Email not detected: %v", byType)
		}
		if byType[entity.USSSN] != "123-45-6789" {
			t.Errorf("SSN not detected: %v", byType)
		}
		if byType[entity.IPAddress] != "10.0.0.1" {
			t.Errorf("IP not detected: %v", byType)
		}
		if byType[entity.URL] == "" {
			t.Errorf("URL not detected: %v", byType)
		}
	})

	t.Run("DistinctValuesOnly", func(t *testing.T) {
		text := "a@x.com and a@x.com and b@x.com"
		detections, err := d.Scan(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}

		emails := 0
		for _, det := range detections {
			if det.Type == entity.EmailAddress {
				emails++
			}
		}
		if emails != 2 {
			t.Errorf("Expected 2 distinct emails, got %d", emails)
		}
	})

	t.Run("CleanText", func(t *testing.T) {
		detections, err := d.Scan(context.Background(), "Nothing sensitive in this sentence.")
		if err != nil {
			t.Fatal(err)
		}
		if len(detections) != 0 {
			t.Errorf("Expected no detections, got %v", detections)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := d.Scan(ctx, "text"); err == nil {
			t.Error("Expected error for cancelled context")
		}
	})
}
