package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the config directories.
const FileName = "klondike.yaml"

// LoadKlondike loads the Klondike configuration.
// Search order: customPath -> ~/.klondike/configs/klondike.yaml ->
// ./configs/klondike.yaml -> embedded default -> hardcoded default.
// Files are layered over the defaults, so they may set only some keys.
func LoadKlondike(customPath string) (KlondikeConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultKlondikeConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return DefaultKlondikeConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath(FileName), filepath.Join("configs", FileName)} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultKlondikeYAML)
	if err != nil {
		return DefaultKlondikeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse layers YAML over the hardcoded defaults and validates the result.
func parse(data []byte) (KlondikeConfig, error) {
	cfg := DefaultKlondikeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".klondike", "configs", filename)
}

// WriteDefault writes the embedded default config to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	if err := os.WriteFile(path, defaultKlondikeYAML, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// UserConfigPath returns where WriteDefault puts the user config by default.
func UserConfigPath() string {
	return userConfigPath(FileName)
}
