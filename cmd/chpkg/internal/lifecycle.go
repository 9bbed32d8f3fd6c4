package internal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/woorton/clickhouse-cpp/internal/depot"
	"github.com/woorton/clickhouse-cpp/internal/lifecycle"
	"github.com/woorton/clickhouse-cpp/x/cmake"
)

// toolDirs are the directories a build tool works in.
type toolDirs struct {
	source  string
	build   string
	install string
}

// newBuildTool returns the build tool of an invocation. Tests replace it.
var newBuildTool = func(inv *invocation, dirs toolDirs, out io.Writer) lifecycle.BuildTool {
	c := cmake.New(dirs.source, dirs.build, dirs.install)
	c.Generator(inv.cfg.Generator)
	c.Toolchain(inv.cfg.ToolchainFile)
	c.BuildType(inv.toolchain.BuildType)
	c.Locator(inv.store)
	c.Output(out)
	return c
}

// runLifecycle runs req for the resolved invocation. Packages installed by a
// successful run are exported when requested, then recorded in the depot.
func runLifecycle(cmd *cobra.Command, req lifecycle.Request, export string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ref := inv.recipe.Reference()

	src, err := inv.sourceDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(src, "CMakeLists.txt")); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound(fmt.Sprintf("no sources at %s, run \"chpkg source\" first", src), err)
		}
		return internalError(err.Error(), err)
	}
	dirs := toolDirs{source: src}
	if dirs.build, err = inv.store.BuildDir(ref.Path, inv.id); err != nil {
		return internalError(err.Error(), err)
	}
	if dirs.install, err = inv.store.InstallDir(ref, inv.id); err != nil {
		return internalError(err.Error(), err)
	}
	assert.NotEmpty(ctx, inv.id, "variant id must be set")
	assert.NotEmpty(ctx, dirs.build, "build dir must be set")
	assert.NotEmpty(ctx, dirs.install, "install dir must be set")

	log.Ctx(ctx).Info().
		Str("package", ref.String()).
		Str("variant", inv.id).
		Str("request", req.String()).
		Msg("running lifecycle")

	tool := newBuildTool(inv, dirs, cmd.ErrOrStderr())
	res := lifecycle.Run(ctx, tool, inv.plan, req)
	if !res.OK() {
		if res.Diagnostic != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Diagnostic)
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%s %s: %s at %s step", req, ref, res.Status, res.Failed)).
			WithCause(res.AsError())
	}

	if req != lifecycle.RequestBuild {
		if export != "" {
			if err := exportInstall(dirs.install, export); err != nil {
				return internalError(fmt.Sprintf("failed to write output: %v", err), err)
			}
		}
		info := inv.recipe.Info(inv.opts)
		entry := depot.Entry{
			Metadata:  inv.variant.Combinations()[0],
			Options:   inv.opts.String(),
			Libs:      info.Libs,
			Dir:       dirs.install,
			BuildTime: time.Now(),
		}
		if err := inv.store.Record(ref, inv.id, entry); err != nil {
			return internalError(fmt.Sprintf("failed to record install: %v", err), err)
		}
	}

	steps := make([]string, len(res.Steps))
	for i, s := range res.Steps {
		steps[i] = string(s)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s (%s)\n", ref, inv.id, res.Status, strings.Join(steps, ", "))
	return nil
}
