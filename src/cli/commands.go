package cli

import (
	"github.com/spf13/cobra"

	"lsp-core/src/internal/common"
	versionpkg "lsp-core/src/internal/version"
)

// CLI Constants
const (
	CmdVersion    = "version"
	CmdIndex      = "index"
	CmdScan       = "scan"
	CmdConfig     = "config"
	CmdConfigInit = "init"
	FlagConfig    = "config"
	FlagVerbose   = "verbose"
	FlagLookup    = "lookup"
	FlagQuery     = "query"
	FlagLimit     = "limit"
	FlagWatch     = "watch"
	FlagOut       = "out"
)

// CLI Variables
var (
	configPath string
	verbose    bool
	lookupID   string
	queryText  string
	queryLimit int
	watchMode  bool
	outPath    string
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "lsp-core",
	Short: "lsp-core - code completion and navigation core for language-aware tooling",
	Long: `lsp-core hosts the completion and signature-help core shared by language-aware
development tools: an in-memory symbol index, a ranking completion engine, and
a document pipeline that keeps both current while files change.

QUICK START:
  lsp-core scan .                          # Build an index over the current tree
  lsp-core scan . --watch                  # Keep rebuilding as files change

AVAILABLE COMMANDS:

  Core Operations:
    lsp-core scan <directory>              # Analyze a source tree and report symbols
    lsp-core index <database>              # Inspect a saved symbol database
    lsp-core config init                   # Write a default configuration file
    lsp-core version                       # Show version information

  Index Inspection:
    lsp-core index syms.db                 # Show symbol and scope statistics
    lsp-core index syms.db --lookup ns::f  # Look up one symbol by identity
    lsp-core index syms.db --query vec     # Fuzzy-find symbols by name

Configuration lives at ~/.lsp-core/config.yaml by default; every command
accepts --config to point somewhere else.

Use 'lsp-core <command> --help' for detailed command information.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command definitions
var (
	versionCmd = &cobra.Command{
		Use:   CmdVersion,
		Short: "Show version information",
		Long: `Display version information for lsp-core.

By default, shows only the version number. Use --verbose for detailed build
information including commit hash, build date, and Go version.

Examples:
  lsp-core version              # Show version number
  lsp-core version --verbose    # Show detailed build information`,
		RunE: runVersionCmd,
	}

	indexCmd = &cobra.Command{
		Use:   CmdIndex + " <database>",
		Short: "Inspect a saved symbol database",
		Long: `Load a symbol database, build the static index from it, and report what it
holds: symbol and scope counts plus a per-kind breakdown.

With --lookup, resolve a single symbol by its identity (the qualified name,
plus the signature for overloads) and print its details. With --query, run a
fuzzy name query the way the completion engine would and print the matches in
relevance order.

Examples:
  lsp-core index syms.db
  lsp-core index syms.db --lookup ns::create
  lsp-core index syms.db --query vec --limit 20`,
		Args: cobra.ExactArgs(1),
		RunE: runIndexCmd,
	}

	scanCmd = &cobra.Command{
		Use:   CmdScan + " <directory>",
		Short: "Analyze a source tree and build its symbol index",
		Long: `Walk a directory, run every matching file through the analysis pipeline, and
report the resulting index. File extensions and excluded directories come from
the watcher section of the configuration.

With --out, save the symbols from the initial pass to a symbol database that
the index command can inspect and the static_index_path setting can preload.

With --watch, stay running after the initial pass and rebuild files as they
change on disk, until interrupted.

Examples:
  lsp-core scan .
  lsp-core scan . --out syms.db
  lsp-core scan ./src --watch
  lsp-core scan . --config custom.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	configCmd = &cobra.Command{
		Use:   CmdConfig,
		Short: "Manage lsp-core configuration",
		Long: `Manage the lsp-core configuration file.

Available commands:
  lsp-core config init          # Write a default configuration file

Examples:
  lsp-core config init
  lsp-core config init --config ./lsp-core.yaml`,
		RunE: runConfigCmd,
	}

	configInitCmd = &cobra.Command{
		Use:   CmdConfigInit,
		Short: "Write a default configuration file",
		Long: `Write a configuration file populated with the default settings: worker count,
completion options, and watcher extensions. Writes to ~/.lsp-core/config.yaml
unless --config names another path. Refuses to overwrite an existing file.`,
		RunE: runConfigInitCmd,
	}
)

func init() {
	// Version command flags
	versionCmd.Flags().BoolVarP(&verbose, FlagVerbose, "v", false, "Show detailed version information")

	// Index command flags
	indexCmd.Flags().StringVar(&lookupID, FlagLookup, "", "Resolve one symbol by identity")
	indexCmd.Flags().StringVar(&queryText, FlagQuery, "", "Fuzzy-find symbols by name")
	indexCmd.Flags().IntVar(&queryLimit, FlagLimit, 10, "Maximum results for --query")

	// Scan command flags
	scanCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional)")
	scanCmd.Flags().StringVarP(&outPath, FlagOut, "o", "", "Save scanned symbols to a symbol database")
	scanCmd.Flags().BoolVarP(&watchMode, FlagWatch, "w", false, "Keep running and rebuild on file changes")

	// Config subcommands
	configInitCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Destination path (defaults to ~/.lsp-core/config.yaml)")
	configCmd.AddCommand(configInitCmd)

	// Add commands to root
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}

// Command runners
func runVersionCmd(cmd *cobra.Command, args []string) error {
	if verbose {
		common.CLILogger.Info("%s", versionpkg.GetFullVersionInfo())
	} else {
		common.CLILogger.Info("%s", versionpkg.GetVersion())
	}
	return nil
}

func runIndexCmd(cmd *cobra.Command, args []string) error {
	return RunIndexInfo(args[0], lookupID, queryText, queryLimit)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	return RunScan(args[0], configPath, outPath, watchMode)
}

func runConfigCmd(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

func runConfigInitCmd(cmd *cobra.Command, args []string) error {
	return InitConfig(configPath)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
