package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// Registry holds the known connectors in auto-select priority order:
// cloud services first (fastest, best layout fidelity), local fallbacks
// after.
type Registry struct {
	extractors []Extractor
	logger     *logger.Logger
}

// NewRegistry builds the connector set from configuration.
func NewRegistry(cfg config.ExtractConfig, log *logger.Logger) *Registry {
	rlog := log.WithComponent("extract")
	return &Registry{
		extractors: []Extractor{
			NewAzureDI(cfg.AzureDI, cfg.Timeout, rlog),
			NewLlamaParse(cfg.LlamaParse, cfg.Timeout, rlog),
			NewDocling(cfg.Docling, cfg.Timeout, rlog),
			NewMinerU(cfg.MinerU, cfg.Timeout, rlog),
		},
		logger: rlog,
	}
}

// Get returns a connector by name (case-insensitive), or nil.
func (r *Registry) Get(name string) Extractor {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range r.extractors {
		if strings.ToLower(e.Name()) == name {
			return e
		}
	}
	return nil
}

// Names lists the registered connector names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors))
	for _, e := range r.extractors {
		names = append(names, e.Name())
	}
	return names
}

// AutoSelect picks the highest-priority connector that is configured and
// can handle the file. Returns nil when none qualifies.
func (r *Registry) AutoSelect(path string) Extractor {
	for _, e := range r.extractors {
		if e.Available() && e.Validate(path) {
			r.logger.Debug("Auto-selected extractor",
				zap.String("extractor", e.Name()),
				zap.String("file", path),
			)
			return e
		}
	}
	return nil
}
