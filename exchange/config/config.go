/*
Package config persists the exchange settings across sessions. One
recognized option: which transport carries the payload.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Mode selects the transport backend.
type Mode string

const (
	ModeTempFile  Mode = "tempfile"
	ModeClipboard Mode = "clipboard"
)

// FileName is the settings file, stored under the user config directory.
const FileName = "clipboard.toml"

// Settings holds the persisted options. TempFilePath overrides the
// well-known payload location when set; empty means the OS temp directory.
type Settings struct {
	TransportMode Mode   `toml:"transport_mode"`
	TempFilePath  string `toml:"tempfile_path,omitempty"`
}

// Default returns the settings used when no file exists yet: temp-file
// transport at the well-known path.
func Default() *Settings {
	return &Settings{TransportMode: ModeTempFile}
}

// DefaultPath returns where the settings file lives for this user.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ModoClipboard", FileName), nil
}

// Load reads settings from path. A missing file yields Default() and no
// error; a present but unreadable or invalid file is an error, since
// silently ignoring a user's explicit configuration would be worse.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	s := Default()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings to path, creating the directory if needed.
func Save(path string, s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects unknown transport modes.
func (s *Settings) Validate() error {
	switch s.TransportMode {
	case ModeTempFile, ModeClipboard:
		return nil
	}
	return fmt.Errorf("unknown transport_mode %q (want %q or %q)", s.TransportMode, ModeTempFile, ModeClipboard)
}
