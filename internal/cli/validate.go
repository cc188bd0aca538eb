package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeflow-labs/forgeflow/internal/config"
	"github.com/forgeflow-labs/forgeflow/internal/validate"
	"github.com/forgeflow-labs/forgeflow/internal/writer"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Re-validate a previously written scaffold directory",
	Long: `Reload a written scaffold through its structural index and run every
validation pass over it again. Hand-edited artifacts that break the
lifecycle, flow graph, or schema contracts are reported here.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := writer.Load(args[0])
		if err != nil {
			return err
		}

		report := validate.Run(cmd.Context(), set, config.Workers())
		printReport(report)

		if !report.Passed {
			return fmt.Errorf("scaffold in %s failed validation", args[0])
		}
		return nil
	},
}
