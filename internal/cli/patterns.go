package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgeflow-labs/forgeflow/internal/pattern"
)

var patternsVerbose bool

func init() {
	patternsCmd.Flags().BoolVarP(&patternsVerbose, "verbose", "v", false, "Show indicators and default nodes")
	rootCmd.AddCommand(patternsCmd)
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the architecture pattern taxonomy",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, d := range pattern.Definitions() {
			fmt.Printf("%-22s %s\n", d.Name, d.Summary)
			if !patternsVerbose {
				continue
			}

			fmt.Printf("    indicators: %s\n", strings.Join(d.Indicators, ", "))
			roles := make([]string, len(d.DefaultNodes))
			for i, n := range d.DefaultNodes {
				roles[i] = fmt.Sprintf("%s (%s)", n.Role, n.Kind)
			}
			fmt.Printf("    default nodes: %s\n", strings.Join(roles, " -> "))
			if len(d.DefaultUtilities) > 0 {
				utils := make([]string, len(d.DefaultUtilities))
				for i, u := range d.DefaultUtilities {
					utils[i] = u.Name
				}
				fmt.Printf("    default utilities: %s\n", strings.Join(utils, ", "))
			}
			fmt.Println()
		}
		return nil
	},
}
