package internal

import (
	"github.com/spf13/cobra"

	"github.com/woorton/clickhouse-cpp/internal/lifecycle"
)

var createOutput string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Configure, build, test and install the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLifecycle(cmd, lifecycle.RequestCreate, createOutput)
	},
}

func init() {
	createCmd.Flags().StringVar(&createOutput, "output", "", "Also copy the installed package to a directory or .zip file")
	rootCmd.AddCommand(createCmd)
}
