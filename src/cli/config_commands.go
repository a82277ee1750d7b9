package cli

import (
	"fmt"

	"lsp-core/src/config"
	"lsp-core/src/internal/common"
)

// InitConfig writes a default configuration file at configPath, or at the
// default location when the path is empty. An existing file is never
// overwritten.
func InitConfig(configPath string) error {
	path := configPath
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if common.FileExists(path) {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := config.GenerateDefaultConfig(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	common.CLILogger.Info("✅ Wrote default configuration to %s", path)
	return nil
}
