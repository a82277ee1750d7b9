package cli

import (
	"lsp-core/src/config"
	"lsp-core/src/internal/common"
)

// LoadConfigOrDefault loads configuration with automatic fallback to the
// defaults. An explicit path that fails to load is reported and replaced by
// the defaults rather than aborting the command.
func LoadConfigOrDefault(configPath string) *config.Config {
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			common.CLILogger.Warn("Failed to load config from %s, using defaults: %v", configPath, err)
			return config.GetDefaultConfig()
		}
		return cfg
	}

	// Try the default config file if it exists
	defaultPath := config.GetDefaultConfigPath()
	if common.FileExists(defaultPath) {
		cfg, err := config.LoadConfig(defaultPath)
		if err != nil {
			common.CLILogger.Warn("Failed to load default config from %s, using defaults: %v", defaultPath, err)
			return config.GetDefaultConfig()
		}
		return cfg
	}

	return config.GetDefaultConfig()
}
