package cli

import (
	"github.com/spf13/cobra"

	"github.com/inkognito-mcp/inkognito/internal/service"
)

var extractFlags struct {
	outputPath string
	method     string
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Convert a PDF or office document to markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, svc, err := setup()
		if err != nil {
			return err
		}
		defer svc.Close()
		defer log.Sync()

		result, err := svc.Extract(cmd.Context(), service.ExtractRequest{
			FilePath:   args[0],
			OutputPath: extractFlags.outputPath,
			Method:     extractFlags.method,
			Progress:   progressPrinter(),
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	f := extractCmd.Flags()
	f.StringVarP(&extractFlags.outputPath, "output", "o", "", "output markdown path (derived from the input if omitted)")
	f.StringVarP(&extractFlags.method, "method", "m", "auto", "extraction method: auto, azure, llamaparse, docling, or mineru")

	rootCmd.AddCommand(extractCmd)
}
