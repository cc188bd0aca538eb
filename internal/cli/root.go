package cli

import (
	"github.com/forgeflow-labs/forgeflow/internal/branding"
	"github.com/forgeflow-labs/forgeflow/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` turns a structured feature specification into a scaffolded
project skeleton: it recognizes the architecture pattern, expands the
pattern's templates into node, flow, schema, and utility stubs, validates
the generated set, and derives its dependency configuration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
