package detect

import (
	"context"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/entity"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// PatternDetector handles pattern-based entity detection
type PatternDetector struct {
	rules   []Rule
	enabled map[string]bool
	logger  *logger.Logger
}

// NewPatternDetector creates a detector over the built-in rule table.
// detectors selects rules by name; "all" enables everything.
func NewPatternDetector(detectors []string, log *logger.Logger) (*PatternDetector, error) {
	d := &PatternDetector{
		rules:   DefaultRules(),
		enabled: make(map[string]bool),
		logger:  log.WithComponent("detector"),
	}

	if err := d.configureRules(detectors); err != nil {
		return nil, err
	}

	d.logger.Info("Pattern detector initialized",
		zap.Int("total_rules", len(d.rules)),
		zap.Int("enabled_rules", d.countEnabledRules()),
	)

	return d, nil
}

// configureRules enables/disables rules based on configuration
func (d *PatternDetector) configureRules(detectors []string) error {
	// Disable all rules by default
	for _, rule := range d.rules {
		d.enabled[rule.Name] = false
	}

	for _, name := range detectors {
		if name == "all" {
			for _, rule := range d.rules {
				d.enabled[rule.Name] = true
			}
			continue
		}

		found := false
		for _, rule := range d.rules {
			// Selection by rule name or by the entity type it produces.
			if rule.Name == name || string(rule.Type) == name {
				d.enabled[rule.Name] = true
				found = true
			}
		}

		if !found {
			// Allow-lists are usually entity types; types without a
			// pattern rule (PERSON, ORGANIZATION, ...) are simply not
			// detectable by this backend.
			if entity.Parse(name) == entity.Unknown {
				return &ScanError{Detector: "pattern", Err: errUnknownDetector(name)}
			}
		}
	}

	return nil
}

// Scan runs every enabled rule over the text and returns one detection per
// distinct matched value. Occurrence counting happens in the pipeline.
func (d *PatternDetector) Scan(ctx context.Context, text string) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ScanError{Detector: "pattern", Err: err}
	}

	var detections []entity.Detection
	seen := make(map[string]bool)

	for _, rule := range d.rules {
		if !d.enabled[rule.Name] {
			continue
		}

		matches := rule.Pattern.FindAllString(text, -1)
		for _, value := range matches {
			if seen[value] {
				continue
			}
			seen[value] = true
			detections = append(detections, entity.Detection{
				Type:       rule.Type,
				Value:      value,
				Confidence: rule.Confidence,
			})
		}

		if len(matches) > 0 {
			d.logger.Debug("Rule matched",
				zap.String("rule", rule.Name),
				zap.Int("matches", len(matches)),
			)
		}
	}

	return detections, nil
}

// EnabledRules returns the names of currently enabled rules
func (d *PatternDetector) EnabledRules() []string {
	var enabled []string
	for _, rule := range d.rules {
		if d.enabled[rule.Name] {
			enabled = append(enabled, rule.Name)
		}
	}
	return enabled
}

func (d *PatternDetector) countEnabledRules() int {
	count := 0
	for _, on := range d.enabled {
		if on {
			count++
		}
	}
	return count
}

type errUnknownDetector string

func (e errUnknownDetector) Error() string { return "unknown detector: " + string(e) }
