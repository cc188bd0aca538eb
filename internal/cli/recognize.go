package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

var recognizeScores bool

func init() {
	recognizeCmd.Flags().BoolVar(&recognizeScores, "scores", false, "Print every pattern's score")
	rootCmd.AddCommand(recognizeCmd)
}

var recognizeCmd = &cobra.Command{
	Use:   "recognize <spec.yaml>",
	Short: "Recognize a specification's architecture pattern without generating",
	Long: `Score the specification against the pattern taxonomy and print the
selection, or the candidate list when recognition is ambiguous. Useful for
settling on an explicit pattern before a generate run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := spec.Load(args[0], pattern.Known())
		if err != nil {
			return err
		}

		sel, err := pattern.Recognize(s)
		if err != nil {
			var ambiguous *pattern.AmbiguousPatternError
			if errors.As(err, &ambiguous) {
				printAmbiguous(ambiguous)
				if recognizeScores {
					printScores(ambiguous.Scores)
				}
				// Ambiguity is a reported outcome here, not a failure.
				return nil
			}
			return err
		}

		fmt.Printf("Pattern: %s (confidence %.2f)\n", sel.Pattern.Name, sel.Confidence)
		fmt.Printf("  %s\n", sel.Pattern.Summary)
		if recognizeScores {
			printScores(pattern.ScoreAll(s))
		}
		return nil
	},
}

func printScores(scores []pattern.Score) {
	fmt.Println("\nScores:")
	for _, s := range scores {
		fmt.Printf("  %-22s %.2f\n", s.Pattern, s.Value)
	}
}
