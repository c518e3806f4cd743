package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings are user-level defaults applied when initializing new projects.
// Stored as TOML at ~/.config/grove/settings.toml; every field is optional.
type Settings struct {
	PackageManager  string   `toml:"package_manager"`
	CopyPatterns    []string `toml:"copy_patterns"`
	SymlinkPatterns []string `toml:"symlink_patterns"`
}

// DefaultSettings are the compiled-in defaults used when no settings file
// exists. Env files are copied (each workspace needs its own mutable copy);
// dependency directories are symlinked to avoid a full reinstall per branch.
func DefaultSettings() *Settings {
	return &Settings{
		CopyPatterns:    []string{".env", ".env.*"},
		SymlinkPatterns: []string{"node_modules"},
	}
}

// SettingsPath returns the location of the user settings file.
func SettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "grove", "settings.toml"), nil
}

// LoadSettings reads the user settings file, returning compiled-in defaults
// when the file is absent or its location cannot be determined.
func LoadSettings() *Settings {
	path, err := SettingsPath()
	if err != nil {
		return DefaultSettings()
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom reads settings from an explicit path. Absent or
// unparseable files fall back to defaults: settings tune behavior, they
// never gate it.
func LoadSettingsFrom(path string) *Settings {
	settings := DefaultSettings()
	if _, err := toml.DecodeFile(path, settings); err != nil {
		return DefaultSettings()
	}
	return settings
}
