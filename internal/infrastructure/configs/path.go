package configs

import (
	"os"
	"path/filepath"

	"github.com/hilthontt/signals/internal/infrastructure/env"
)

// ConfigEnv names the variable that points at the config file.
const ConfigEnv = "SIGNALS_CONFIG"

// configCandidates are searched in order when neither the flag nor
// SIGNALS_CONFIG names a file.
func configCandidates() []string {
	paths := []string{
		filepath.Join("config", "config.yaml"),
		"config.yaml",
		"config.yml",
	}

	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "signals", "config.yaml"))
	}

	return append(paths, "/etc/signals/config.yaml")
}

// DetermineConfigPath resolves the config file from the flag value, then
// SIGNALS_CONFIG, then well-known locations. An empty result means the
// configuration comes from defaults and the environment only.
func DetermineConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if fromEnv := env.GetString(ConfigEnv, ""); fromEnv != "" {
		return fromEnv
	}

	return firstExisting(configCandidates())
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
