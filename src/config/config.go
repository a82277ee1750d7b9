package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lsp-core/src/server/completion"
)

// Config carries the runtime configuration of the completion server.
type Config struct {
	// Workers bounds the number of concurrent snapshot builds. Zero or
	// negative means one per CPU.
	Workers int `yaml:"workers"`
	// StaticIndexPath points at a SQLite symbol database to preload into
	// the static index. Empty disables preloading.
	StaticIndexPath string            `yaml:"static_index_path,omitempty"`
	Completion      *CompletionConfig `yaml:"completion"`
	Watcher         *WatcherConfig    `yaml:"watcher"`
}

// CompletionConfig mirrors the completion engine options in YAML form.
type CompletionConfig struct {
	Limit                    int  `yaml:"limit"`
	IncludeGlobals           bool `yaml:"include_globals"`
	IncludeMacros            bool `yaml:"include_macros"`
	IncludeBriefComments     bool `yaml:"include_brief_comments"`
	IncludeCodePatterns      bool `yaml:"include_code_patterns"`
	IncludeIneligibleResults bool `yaml:"include_ineligible_results"`
	EnableSnippets           bool `yaml:"enable_snippets"`
}

// WatcherConfig controls the workspace file watcher.
type WatcherConfig struct {
	// DebounceMS is the quiet period after the last change of a file before
	// it is rebuilt.
	DebounceMS int `yaml:"debounce_ms"`
	// Extensions lists the file extensions the watcher feeds into the
	// pipeline, with leading dot.
	Extensions []string `yaml:"extensions"`
	// ExcludeDirs lists directory names the watcher never descends into.
	ExcludeDirs []string `yaml:"exclude_dirs"`
	// RespectGitignore additionally filters paths through the root
	// .gitignore when one exists.
	RespectGitignore bool `yaml:"respect_gitignore"`
}

// Options converts the completion section into engine options. A nil
// section yields the engine defaults.
func (c *CompletionConfig) Options() completion.Options {
	if c == nil {
		return completion.DefaultOptions()
	}
	return completion.Options{
		Limit:                    c.Limit,
		IncludeGlobals:           c.IncludeGlobals,
		IncludeMacros:            c.IncludeMacros,
		IncludeBriefComments:     c.IncludeBriefComments,
		IncludeCodePatterns:      c.IncludeCodePatterns,
		IncludeIneligibleResults: c.IncludeIneligibleResults,
		EnableSnippets:           c.EnableSnippets,
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateDefaultConfig generates a default configuration file
func GenerateDefaultConfig(path string) error {
	config := GetDefaultConfig()
	return SaveConfig(config, path)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", config.Workers)
	}
	if config.Completion != nil && config.Completion.Limit < 0 {
		return fmt.Errorf("completion limit must not be negative, got %d", config.Completion.Limit)
	}
	if config.Watcher != nil {
		if config.Watcher.DebounceMS < 0 {
			return fmt.Errorf("watcher debounce must not be negative, got %d", config.Watcher.DebounceMS)
		}
		for _, ext := range config.Watcher.Extensions {
			if ext == "" || ext[0] != '.' {
				return fmt.Errorf("watcher extensions must start with a dot, got %q", ext)
			}
		}
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lsp-core", "config.yaml")
}

// GetDefaultConfig returns the built-in defaults: engine-default completion
// options, four build workers, and a watcher tuned for common source trees.
func GetDefaultConfig() *Config {
	opts := completion.DefaultOptions()
	return &Config{
		Workers: 4,
		Completion: &CompletionConfig{
			Limit:                    opts.Limit,
			IncludeGlobals:           opts.IncludeGlobals,
			IncludeMacros:            opts.IncludeMacros,
			IncludeBriefComments:     opts.IncludeBriefComments,
			IncludeCodePatterns:      opts.IncludeCodePatterns,
			IncludeIneligibleResults: opts.IncludeIneligibleResults,
			EnableSnippets:           opts.EnableSnippets,
		},
		Watcher: &WatcherConfig{
			DebounceMS:       500,
			Extensions:       []string{".go", ".py", ".js", ".ts", ".java", ".c", ".cc", ".cpp", ".h", ".hpp"},
			ExcludeDirs:      []string{".git", "node_modules", "vendor"},
			RespectGitignore: true,
		},
	}
}
