package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/entity"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// HTTPDetector calls an external entity-detection service (an NER model
// behind an HTTP endpoint). Types the service reports outside the closed
// enumeration are mapped to UNKNOWN at this boundary.
type HTTPDetector struct {
	endpoint string
	client   *http.Client
	logger   *logger.Logger
}

type scanRequest struct {
	Text string `json:"text"`
}

type scanResponse struct {
	Detections []struct {
		EntityType string  `json:"entity_type"`
		Value      string  `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"detections"`
}

// NewHTTPDetector creates a detector backed by a remote scan endpoint.
func NewHTTPDetector(endpoint string, timeout time.Duration, log *logger.Logger) *HTTPDetector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPDetector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   log.WithComponent("detector"),
	}
}

// Scan posts the text to the detection service and validates its findings.
func (d *HTTPDetector) Scan(ctx context.Context, text string) ([]entity.Detection, error) {
	body, err := json.Marshal(scanRequest{Text: text})
	if err != nil {
		return nil, &ScanError{Detector: "http", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint+"/v1/scan", bytes.NewReader(body))
	if err != nil {
		return nil, &ScanError{Detector: "http", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &ScanError{Detector: "http", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ScanError{Detector: "http", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var parsed scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ScanError{Detector: "http", Err: fmt.Errorf("decode response: %w", err)}
	}

	detections := make([]entity.Detection, 0, len(parsed.Detections))
	for _, raw := range parsed.Detections {
		if raw.Value == "" {
			continue
		}
		typ := entity.Parse(raw.EntityType)
		if typ == entity.Unknown && raw.EntityType != string(entity.Unknown) {
			d.logger.Debug("Unrecognized entity type from detector",
				zap.String("entity_type", raw.EntityType),
			)
		}
		detections = append(detections, entity.Detection{
			Type:       typ,
			Value:      raw.Value,
			Confidence: raw.Confidence,
		})
	}

	return detections, nil
}
