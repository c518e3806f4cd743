// Package config loads grove's project configuration and user settings, and
// builds the environment variable contract handed to lifecycle hooks.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ProjectFileName is the per-project configuration file, written by
// `grove init` into the primary workspace and read on every command.
const ProjectFileName = "grove.json"

// ErrNotInitialized indicates the repository has no project configuration.
var ErrNotInitialized = errors.New("no grove.json found (run 'grove init' first)")

// Hooks holds the optional shell commands run at lifecycle points.
// An empty command means the hook is not configured.
type Hooks struct {
	PostSetup  string `json:"postSetup,omitempty"`
	PreDelete  string `json:"preDelete,omitempty"`
	PostDelete string `json:"postDelete,omitempty"`
}

// ProjectConfig describes one grove-managed project. It is created once by
// `grove init` and never mutated by the lifecycle engine.
type ProjectConfig struct {
	ProjectID       string   `json:"projectId"`
	Name            string   `json:"name"`
	PackageManager  string   `json:"packageManager,omitempty"`
	CopyPatterns    []string `json:"copyPatterns,omitempty"`
	SymlinkPatterns []string `json:"symlinkPatterns,omitempty"`
	Hooks           Hooks    `json:"hooks,omitempty"`
}

// NewProjectConfig creates a config with a fresh project ID and the defaults
// from the user's settings file.
func NewProjectConfig(name string, settings *Settings) *ProjectConfig {
	cfg := &ProjectConfig{
		ProjectID: uuid.NewString(),
		Name:      name,
	}
	if settings != nil {
		cfg.PackageManager = settings.PackageManager
		cfg.CopyPatterns = append(cfg.CopyPatterns, settings.CopyPatterns...)
		cfg.SymlinkPatterns = append(cfg.SymlinkPatterns, settings.SymlinkPatterns...)
	}
	return cfg
}

// LoadProjectConfig reads grove.json from the given workspace root.
// A missing file returns ErrNotInitialized.
func LoadProjectConfig(root string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, ProjectFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("reading %s: %w", ProjectFileName, err)
	}
	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ProjectFileName, err)
	}
	return &cfg, nil
}

// SaveProjectConfig writes grove.json into the given workspace root.
func SaveProjectConfig(root string, cfg *ProjectConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(root, ProjectFileName), data, 0o644)
}

// ProjectConfigExists reports whether a grove.json is present at root.
func ProjectConfigExists(root string) bool {
	_, err := os.Stat(filepath.Join(root, ProjectFileName))
	return err == nil
}
