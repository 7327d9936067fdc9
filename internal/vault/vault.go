package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// Version is the current vault record format version.
const Version = "2.0"

// ErrNotFound indicates the vault file does not exist.
var ErrNotFound = errors.New("vault not found")

// FormatError indicates vault content that cannot be used: unparseable
// JSON or an unsupported format version. Fatal for restoration.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vault format error (%s): %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("vault format error (%s): %s", e.Path, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Record is the on-disk vault: the accumulated mapping table plus session
// metadata. Mappings are stored as ordered [synthetic, original] pairs.
type Record struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	DateOffset int            `json:"date_offset"`
	Mappings   [][2]string    `json:"mappings"`
	Statistics map[string]int `json:"statistics"`
	FileCount  int            `json:"file_count"`
}

// Manager serializes, persists and loads vault records. Records are
// immutable values; restoration never mutates a loaded vault.
type Manager struct {
	logger *logger.Logger
}

// NewManager creates a vault manager.
func NewManager(log *logger.Logger) *Manager {
	return &Manager{logger: log.WithComponent("vault")}
}

// Serialize builds a version-tagged record from a session table. Pure
// except for the creation timestamp.
func (mg *Manager) Serialize(m *Mappings, dateOffset int, fileCount int, statistics map[string]int) *Record {
	pairs := make([][2]string, 0, m.Len())
	m.Each(func(original, synthetic string) {
		pairs = append(pairs, [2]string{synthetic, original})
	})

	stats := make(map[string]int, len(statistics))
	for k, v := range statistics {
		stats[k] = v
	}

	return &Record{
		Version:    Version,
		CreatedAt:  time.Now().UTC(),
		DateOffset: dateOffset,
		Mappings:   pairs,
		Statistics: stats,
		FileCount:  fileCount,
	}
}

// Deserialize extracts the date offset and mapping table from a record.
// A nil record or an unsupported version yields (nil, empty) with a
// warning; it never fails. Contrast with Load, which is fatal on the same
// conditions because restoration cannot proceed without a usable mapping.
func (mg *Manager) Deserialize(record *Record) (*int, *Mappings) {
	if record == nil {
		return nil, NewMappings()
	}

	if record.Version != Version {
		mg.logger.Warn("Unknown vault version", zap.String("version", record.Version))
		return nil, NewMappings()
	}

	m := NewMappings()
	for _, pair := range record.Mappings {
		m.Set(pair[1], pair[0])
	}

	offset := record.DateOffset
	return &offset, m
}

// Invert produces synthetic -> original pairs for restoration, in mapping
// order. If two originals share a synthetic value the later-inserted
// original wins silently; the generator's consistency contract means this
// should not happen, but inversion must not fail if it does.
func Invert(m *Mappings) *Mappings {
	reversed := NewMappings()
	m.Each(func(original, synthetic string) {
		reversed.Set(synthetic, original)
	})
	return reversed
}

// Save writes the full record to path. The write goes to a temp file in
// the same directory and is renamed into place, so a concurrent reader
// never observes a partial vault.
func (mg *Manager) Save(path string, m *Mappings, dateOffset int, fileCount int, statistics map[string]int) error {
	record := mg.Serialize(m, dateOffset, fileCount, statistics)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal vault: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".vault-*.json")
	if err != nil {
		return fmt.Errorf("write vault: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write vault: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write vault: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write vault: %w", err)
	}

	mg.logger.Info("Vault saved",
		zap.String("path", path),
		zap.Int("mappings", m.Len()),
		zap.Int("file_count", fileCount),
	)

	return nil
}

// Load reads and parses a vault record from path. Unlike Deserialize it is
// strict: a missing file returns ErrNotFound and unparseable content or an
// unsupported version returns a FormatError.
func (mg *Manager) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read vault %s: %w", path, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &FormatError{Path: path, Reason: "invalid JSON", Err: err}
	}

	if record.Version != Version {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("unsupported version %q", record.Version)}
	}

	return &record, nil
}
