package internal

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var optionsFormat string

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the recipe options with their defaults and resolved values",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

func init() {
	optionsCmd.Flags().StringVarP(&optionsFormat, "format", "f", "text", "Output format (text, json, yaml)")
	rootCmd.AddCommand(optionsCmd)
}

type optionRow struct {
	Name    string   `json:"name" yaml:"name"`
	Domain  []string `json:"domain" yaml:"domain"`
	Default string   `json:"default" yaml:"default"`
	Value   string   `json:"value" yaml:"value"`
}

func runOptions(cmd *cobra.Command, _ []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	var rows []optionRow
	for _, d := range inv.opts.Schema().Decls() {
		rows = append(rows, optionRow{
			Name:    string(d.Name),
			Domain:  d.Domain,
			Default: d.Default,
			Value:   inv.opts.Value(d.Name),
		})
	}
	return writeFormatted(cmd.OutOrStdout(), optionsFormat, rows, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tVALUE\tDEFAULT\tDOMAIN")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Value, r.Default, strings.Join(r.Domain, "|"))
		}
		return tw.Flush()
	})
}
