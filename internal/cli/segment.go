package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkognito-mcp/inkognito/internal/service"
)

var segmentFlags struct {
	outputDir       string
	maxTokens       int
	minTokens       int
	breakAtHeadings []string
}

var segmentCmd = &cobra.Command{
	Use:   "segment <file>",
	Short: "Split a large markdown document into token-bounded chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, svc, err := setup()
		if err != nil {
			return err
		}
		defer svc.Close()
		defer log.Sync()

		result, err := svc.Segment(cmd.Context(), service.SegmentRequest{
			FilePath:        args[0],
			OutputDir:       segmentFlags.outputDir,
			MaxTokens:       segmentFlags.maxTokens,
			MinTokens:       segmentFlags.minTokens,
			BreakAtHeadings: segmentFlags.breakAtHeadings,
			Progress:        progressPrinter(),
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	f := segmentCmd.Flags()
	f.StringVarP(&segmentFlags.outputDir, "output-dir", "o", "", "directory for segment files (required)")
	f.IntVar(&segmentFlags.maxTokens, "max-tokens", 0, "maximum tokens per segment (default: 15000)")
	f.IntVar(&segmentFlags.minTokens, "min-tokens", 0, "minimum tokens per segment (default: 10000)")
	f.StringSliceVar(&segmentFlags.breakAtHeadings, "break-at", nil, "heading levels to prefer for breaks (default: h1, h2)")
	_ = segmentCmd.MarkFlagRequired("output-dir")

	rootCmd.AddCommand(segmentCmd)
}
