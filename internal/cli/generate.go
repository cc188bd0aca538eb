package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forgeflow-labs/forgeflow/internal/config"
	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/pipeline"
	"github.com/forgeflow-labs/forgeflow/internal/writer"
)

var (
	generateOutputDir    string
	generateDryRun       bool
	generateAllowInvalid bool
	generateWorkers      int
)

func init() {
	generateCmd.Flags().StringVar(&generateOutputDir, "output-dir", "", "Output directory (default: ./<spec name>)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Run the pipeline without writing artifacts")
	generateCmd.Flags().BoolVar(&generateAllowInvalid, "allow-invalid", false, "Write artifacts even when validation fails")
	generateCmd.Flags().IntVar(&generateWorkers, "workers", 0, "Worker count for parallel generation (default: config)")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <spec.yaml>",
	Short: "Run the full pipeline on a specification and write the scaffold",
	Long: `Load a specification, recognize its architecture pattern, expand the
pattern's templates into a project scaffold, validate the result, and write
it to the output directory.

Example:
  forgeflow generate echo-bot.yaml --output-dir ./echo-bot`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := generateWorkers
		if workers < 1 {
			workers = config.Workers()
		}

		result, err := pipeline.RunFile(cmd.Context(), args[0], pipeline.Options{Workers: workers})
		if err != nil {
			var ambiguous *pattern.AmbiguousPatternError
			if errors.As(err, &ambiguous) {
				printAmbiguous(ambiguous)
			}
			return err
		}

		fmt.Printf("Pattern: %s (confidence %.2f)\n",
			result.Selection.Pattern.Name, result.Selection.Confidence)
		fmt.Printf("Artifacts: %d generated for run %s\n",
			len(result.Artifacts.Artifacts), result.RunID)

		printReport(result.Report)

		if !result.Report.Passed && !generateAllowInvalid {
			return fmt.Errorf("validation failed with %d error(s); not writing artifacts", len(result.Report.Errors()))
		}

		if generateDryRun {
			fmt.Println("Dry run: no artifacts written.")
			return nil
		}

		outDir := generateOutputDir
		if outDir == "" {
			if base := config.Get(config.KeyOutputDir); base != "" {
				outDir = filepath.Join(base, result.Spec.Name)
			} else {
				outDir = result.Spec.Name
			}
		}

		written, err := writer.Write(result.Artifacts, outDir)
		if err != nil {
			return err
		}

		fmt.Printf("\nWrote %d files to %s\n", len(written.Files), written.OutputDir)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Fill in each STUB marker with the node's real logic")
		fmt.Println("  2. Run the utility smoke tests to wire up external systems")
		fmt.Printf("  3. Re-check the scaffold with '%s validate %s'\n", rootCmd.Name(), written.OutputDir)
		return nil
	},
}

func printAmbiguous(e *pattern.AmbiguousPatternError) {
	fmt.Printf("Pattern recognition stopped: %s\n", e.Reason)
	fmt.Println("Candidates:")
	for _, c := range e.Candidates {
		fmt.Printf("  - %s\n", c)
	}
	fmt.Println("\nSet an explicit 'pattern:' in the specification to disambiguate.")
}
