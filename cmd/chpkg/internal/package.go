package internal

import (
	"github.com/spf13/cobra"

	"github.com/woorton/clickhouse-cpp/internal/lifecycle"
)

var packageOutput string

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Configure and install the library into the depot",
	Long: `Package configures the library and installs a previous build into the
depot. It never runs tests.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLifecycle(cmd, lifecycle.RequestPackage, packageOutput)
	},
}

func init() {
	packageCmd.Flags().StringVar(&packageOutput, "output", "", "Also copy the installed package to a directory or .zip file")
	rootCmd.AddCommand(packageCmd)
}
