package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woorton/clickhouse-cpp/internal/vcs"
)

var sourceList bool

// newVCS returns the VCS used to fetch sources. Tests replace it.
var newVCS = func() vcs.VCS { return vcs.NewGitVCS() }

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Fetch the clickhouse-cpp sources of the recipe version",
	Args:  cobra.NoArgs,
	RunE:  runSource,
}

func init() {
	sourceCmd.Flags().BoolVar(&sourceList, "list", false, "List upstream release tags instead of fetching")
	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, _ []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	if err := inv.recipe.Validate(); err != nil {
		return internalError(err.Error(), err)
	}
	ctx := cmd.Context()
	repo := newVCS()

	if sourceList {
		tags, err := repo.Tags(ctx, inv.recipe.URL)
		if err != nil {
			return internalError(fmt.Sprintf("failed to list tags: %v", err), err)
		}
		for _, tag := range vcs.Releases(tags) {
			marker := ""
			if tag == inv.recipe.SourceTag() {
				marker = " *"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", tag, marker)
		}
		return nil
	}

	dir, err := inv.sourceDir()
	if err != nil {
		return err
	}
	if err := repo.Sync(ctx, inv.recipe.URL, inv.recipe.SourceTag(), dir); err != nil {
		return internalError(fmt.Sprintf("failed to fetch %s: %v", inv.recipe.SourceTag(), err), err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}
