package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkognito-mcp/inkognito/internal/service"
)

var anonymizeFlags struct {
	outputDir      string
	directory      string
	patterns       []string
	recursive      bool
	entityTypes    []string
	scoreThreshold float64
	dateShiftDays  int
	vaultPath      string
}

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize [files...]",
	Short: "Anonymize documents, writing a vault for later restoration",
	Long: `Anonymize documents by replacing detected PII with realistic fake
data. The same value always gets the same replacement across the batch,
and the vault written alongside the output restores the originals.

Pass explicit files as arguments, or use --directory to scan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, svc, err := setup()
		if err != nil {
			return err
		}
		defer svc.Close()
		defer log.Sync()

		result, err := svc.Anonymize(cmd.Context(), service.AnonymizeRequest{
			OutputDir:      anonymizeFlags.outputDir,
			Files:          args,
			Directory:      anonymizeFlags.directory,
			Patterns:       anonymizeFlags.patterns,
			Recursive:      anonymizeFlags.recursive,
			EntityTypes:    anonymizeFlags.entityTypes,
			ScoreThreshold: anonymizeFlags.scoreThreshold,
			DateShiftDays:  anonymizeFlags.dateShiftDays,
			SeedVault:      anonymizeFlags.vaultPath,
			Progress:       progressPrinter(),
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	f := anonymizeCmd.Flags()
	f.StringVarP(&anonymizeFlags.outputDir, "output-dir", "o", "", "directory for anonymized files and vault (required)")
	f.StringVarP(&anonymizeFlags.directory, "directory", "d", "", "directory to scan for input files")
	f.StringSliceVar(&anonymizeFlags.patterns, "patterns", nil, "file patterns to match (default: *.pdf, *.md, *.txt)")
	f.BoolVarP(&anonymizeFlags.recursive, "recursive", "r", true, "include subdirectories when scanning")
	f.StringSliceVar(&anonymizeFlags.entityTypes, "entity-types", nil, "entity types to detect (default: all)")
	f.Float64Var(&anonymizeFlags.scoreThreshold, "score-threshold", 0, "confidence threshold for detections")
	f.IntVar(&anonymizeFlags.dateShiftDays, "date-shift-days", 0, "maximum days to shift dates")
	f.StringVar(&anonymizeFlags.vaultPath, "vault", "", "existing vault to resume a session")
	_ = anonymizeCmd.MarkFlagRequired("output-dir")

	rootCmd.AddCommand(anonymizeCmd)
}
