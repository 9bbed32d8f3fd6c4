package internal

import (
	"io"

	"github.com/spf13/cobra"
)

var definitionsFormat string

var definitionsCmd = &cobra.Command{
	Use:   "definitions",
	Short: "Print the CMake definitions of the resolved options and toolchain",
	Args:  cobra.NoArgs,
	RunE:  runDefinitions,
}

func init() {
	definitionsCmd.Flags().StringVarP(&definitionsFormat, "format", "f", "text", "Output format (text, json, yaml)")
	rootCmd.AddCommand(definitionsCmd)
}

func runDefinitions(cmd *cobra.Command, _ []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	defs := inv.plan.Definitions
	return writeFormatted(cmd.OutOrStdout(), definitionsFormat, defs.Map(), func(w io.Writer) error {
		_, err := io.WriteString(w, defs.String())
		return err
	})
}
