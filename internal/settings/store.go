package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/internal/validation"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// Store reads and writes the settings file. A missing file is not an error:
// Load returns defaults until the first Save creates it.
type Store struct {
	path   string
	logger interfaces.Logger
}

// StoreOption configures the store at construction time.
type StoreOption func(*Store)

// WithLogger overrides the default no-op logger.
func WithLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore builds a store for the settings file at path.
func NewStore(path string, opts ...StoreOption) *Store {
	store := &Store{
		path:   path,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Path returns the location of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Load reads settings from disk, falling back to Default when the file does
// not exist. The raw payload is schema-validated before decoding so unknown
// keys or wrong types are reported with their JSON location.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("settings.load.defaults", "path", s.path)
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("settings: read %s: %w", s.path, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return Settings{}, fmt.Errorf("settings: parse %s: %w", s.path, err)
	}
	if err := validation.ValidatePayload(schema, payload); err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}

	// Decode over defaults so keys absent from the file keep their default.
	out := Default()
	if err := json.Unmarshal(data, &out); err != nil {
		return Settings{}, fmt.Errorf("settings: decode %s: %w", s.path, err)
	}
	return out, nil
}

// Save validates and writes settings atomically, creating parent directories
// on first use.
func (s *Store) Save(ctx context.Context, settings Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := validation.ValidatePayload(schema, payload); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("settings: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("settings: temp file: %w", err)
	}
	if _, err := tmp.Write(append(encoded, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("settings: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("settings: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("settings: rename: %w", err)
	}

	s.logger.Debug("settings.saved", "path", s.path)
	return nil
}
