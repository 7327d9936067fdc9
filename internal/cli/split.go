package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkognito-mcp/inkognito/internal/service"
)

var splitFlags struct {
	outputDir     string
	splitLevel    string
	parentContext bool
	template      string
}

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split structured markdown into individual prompt files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, svc, err := setup()
		if err != nil {
			return err
		}
		defer svc.Close()
		defer log.Sync()

		result, err := svc.SplitPrompts(cmd.Context(), service.SplitRequest{
			FilePath:             args[0],
			OutputDir:            splitFlags.outputDir,
			SplitLevel:           splitFlags.splitLevel,
			IncludeParentContext: splitFlags.parentContext,
			PromptTemplate:       splitFlags.template,
			Progress:             progressPrinter(),
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	f := splitCmd.Flags()
	f.StringVarP(&splitFlags.outputDir, "output-dir", "o", "", "directory for prompt files (required)")
	f.StringVarP(&splitFlags.splitLevel, "level", "l", "h2", "heading level to split at")
	f.BoolVar(&splitFlags.parentContext, "parent-context", true, "include parent heading in each prompt")
	f.StringVarP(&splitFlags.template, "template", "t", "", "template with {heading}, {content}, {parent}, {level} placeholders")
	_ = splitCmd.MarkFlagRequired("output-dir")

	rootCmd.AddCommand(splitCmd)
}
