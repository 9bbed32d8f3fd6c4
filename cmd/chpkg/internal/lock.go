package internal

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/woorton/clickhouse-cpp/mod/versions"
)

var lockFile string

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Record the resolved requirements of the variant in the lock file",
	Long: `Lock resolves the requirements of the current options and toolchain and
stores them in the lock file under the recipe version and variant id.
Entries of other variants are kept.`,
	Args: cobra.NoArgs,
	RunE: runLock,
}

func init() {
	lockCmd.Flags().StringVar(&lockFile, "file", versions.FileName, "Lock file path")
	rootCmd.AddCommand(lockCmd)
}

func runLock(cmd *cobra.Command, _ []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}

	v, err := versions.Parse(lockFile, nil)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		v = &versions.Versions{Path: inv.recipe.Name}
	case err != nil:
		return invalidArgument(fmt.Sprintf("failed to parse %s: %v", lockFile, err), err)
	case v.Path != inv.recipe.Name:
		return invalidArgument(fmt.Sprintf("%s locks %q, not %q", lockFile, v.Path, inv.recipe.Name), nil)
	}

	key := versions.Key(inv.recipe.Version, inv.id)
	v.Set(key, inv.plan.Requirements.Versions())
	if err := v.Write(lockFile); err != nil {
		return internalError(fmt.Sprintf("failed to write %s: %v", lockFile, err), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "locked %d requirements for %s\n", len(inv.plan.Requirements), key)
	return nil
}
