package internal

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/woorton/clickhouse-cpp/recipe"
)

var infoFormat string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the package info published for the resolved variant",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoFormat, "format", "f", "yaml", "Output format (json, yaml)")
	rootCmd.AddCommand(infoCmd)
}

type infoOutput struct {
	Package     string             `json:"package" yaml:"package"`
	Variant     string             `json:"variant" yaml:"variant"`
	URL         string             `json:"url" yaml:"url"`
	Description string             `json:"description" yaml:"description"`
	Info        recipe.PackageInfo `json:"info" yaml:"info"`
	Options     map[string]string  `json:"options" yaml:"options"`
}

func runInfo(cmd *cobra.Command, _ []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	out := infoOutput{
		Package:     inv.recipe.Reference().String(),
		Variant:     inv.id,
		URL:         inv.recipe.URL,
		Description: inv.recipe.Description,
		Info:        inv.recipe.Info(inv.opts),
		Options:     inv.opts.Map(),
	}
	format := infoFormat
	if format == "" || format == "text" {
		format = "yaml"
	}
	return writeFormatted(cmd.OutOrStdout(), format, out, func(io.Writer) error { return nil })
}
