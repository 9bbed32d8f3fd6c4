package internal

import (
	"github.com/spf13/cobra"

	"github.com/woorton/clickhouse-cpp/internal/lifecycle"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Configure and build the library",
	Long: `Build configures the library with the resolved definitions and builds it.
When build_tests is set the test suite runs after the build.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLifecycle(cmd, lifecycle.RequestBuild, "")
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
