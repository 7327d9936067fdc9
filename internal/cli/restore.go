package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkognito-mcp/inkognito/internal/service"
)

var restoreFlags struct {
	outputDir string
	directory string
	vaultPath string
	patterns  []string
	recursive bool
}

var restoreCmd = &cobra.Command{
	Use:   "restore [files...]",
	Short: "Restore original PII in anonymized documents",
	Long: `Restore the original values in documents produced by anonymize,
using the vault. When --vault is not given the vault.json is looked up
next to the input files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, svc, err := setup()
		if err != nil {
			return err
		}
		defer svc.Close()
		defer log.Sync()

		result, err := svc.Restore(cmd.Context(), service.RestoreRequest{
			OutputDir: restoreFlags.outputDir,
			Files:     args,
			Directory: restoreFlags.directory,
			VaultPath: restoreFlags.vaultPath,
			Patterns:  restoreFlags.patterns,
			Recursive: restoreFlags.recursive,
			Progress:  progressPrinter(),
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	f := restoreCmd.Flags()
	f.StringVarP(&restoreFlags.outputDir, "output-dir", "o", "", "directory for restored files (required)")
	f.StringVarP(&restoreFlags.directory, "directory", "d", "", "directory containing anonymized files")
	f.StringVar(&restoreFlags.vaultPath, "vault", "", "path to vault.json (auto-detected if omitted)")
	f.StringSliceVar(&restoreFlags.patterns, "patterns", nil, "file patterns to match (default: *.md)")
	f.BoolVarP(&restoreFlags.recursive, "recursive", "r", true, "include subdirectories when scanning")
	_ = restoreCmd.MarkFlagRequired("output-dir")

	rootCmd.AddCommand(restoreCmd)
}
