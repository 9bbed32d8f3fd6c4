package internal

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/woorton/clickhouse-cpp/recipe"
)

var requirementsFormat string

var requirementsCmd = &cobra.Command{
	Use:   "requirements",
	Short: "Print the dependency requirements of the resolved options",
	Args:  cobra.NoArgs,
	RunE:  runRequirements,
}

func init() {
	requirementsCmd.Flags().StringVarP(&requirementsFormat, "format", "f", "text", "Output format (text, json, yaml)")
	rootCmd.AddCommand(requirementsCmd)
}

func runRequirements(cmd *cobra.Command, _ []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	reqs := inv.plan.Requirements
	if reqs == nil {
		reqs = recipe.Requirements{}
	}
	return writeFormatted(cmd.OutOrStdout(), requirementsFormat, reqs, func(w io.Writer) error {
		for _, r := range reqs {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Version, r.Scope); err != nil {
				return err
			}
		}
		return nil
	})
}
