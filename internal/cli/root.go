// Package cli implements the inkognito command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/service"
)

var (
	cfgFile string
	verbose bool

	// Version is set by the build and exposed through the version command.
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "inkognito",
	Short: "Reversible document anonymization",
	Long: `inkognito anonymizes PII in documents with realistic fake data,
keeping the mapping in a vault so the originals can be restored later.
It also extracts PDFs to markdown and splits large documents into
LLM-sized chunks.

Run with no arguments to serve MCP over stdio.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation behaves like `inkognito serve`, so MCP
		// clients can launch the binary directly.
		return runServe(cmd, args)
	},
}

// Execute runs the root command.
func Execute(version string) {
	Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml, ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inkognito %s\n", Version)
	},
}

// setup loads configuration and builds the logger and service shared by
// every subcommand.
func setup() (*config.Config, *logger.Logger, *service.Service, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:  level,
		Format: cfg.Logging.Format,
		File: &logger.FileConfig{
			Enabled:  cfg.Logging.File.Enabled,
			Path:     cfg.Logging.File.Path,
			MaxSize:  cfg.Logging.File.MaxSize,
			MaxAge:   cfg.Logging.File.MaxAge,
			Compress: cfg.Logging.File.Compress,
		},
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize logger: %w", err)
	}

	svc, err := service.New(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, log, svc, nil
}

// printResult renders a processing result for terminal use.
func printResult(result *service.ProcessingResult) error {
	if !result.Success {
		return fmt.Errorf("%s", result.Message)
	}

	fmt.Println(result.Message)
	if result.VaultPath != "" {
		fmt.Printf("Vault: %s\n", result.VaultPath)
	}
	for _, p := range result.OutputPaths {
		fmt.Printf("  %s\n", p)
	}
	for _, f := range result.Failed {
		fmt.Fprintf(os.Stderr, "  failed: %s\n", f)
	}
	return nil
}

// progressPrinter reports progress to stderr so stdout stays parseable.
func progressPrinter() service.ProgressFunc {
	return func(message string, fraction float64) {
		fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", fraction*100, message)
	}
}
