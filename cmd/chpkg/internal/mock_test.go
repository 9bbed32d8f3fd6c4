package internal

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/woorton/clickhouse-cpp/internal/lifecycle"
)

// fakeTool implements lifecycle.BuildTool without running cmake. Install
// writes a header into the install prefix.
type fakeTool struct {
	dirs  toolDirs
	calls []lifecycle.Step
	plan  lifecycle.Plan
	fail  lifecycle.Step
}

type toolFailure struct{}

func (toolFailure) Error() string      { return "exit status 8" }
func (toolFailure) Diagnostic() string { return "The following tests FAILED: 7 - client_ut" }

func (f *fakeTool) step(s lifecycle.Step) error {
	f.calls = append(f.calls, s)
	if s == f.fail {
		return toolFailure{}
	}
	return nil
}

func (f *fakeTool) Configure(ctx context.Context, plan lifecycle.Plan) error {
	f.plan = plan
	return f.step(lifecycle.StepConfigure)
}

func (f *fakeTool) Build(ctx context.Context) error { return f.step(lifecycle.StepBuild) }
func (f *fakeTool) Test(ctx context.Context) error  { return f.step(lifecycle.StepTest) }

func (f *fakeTool) Install(ctx context.Context) error {
	if err := f.step(lifecycle.StepInstall); err != nil {
		return err
	}
	dir := filepath.Join(f.dirs.install, "include", "clickhouse")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "client.h"), []byte("#pragma once\n"), 0o644)
}

// useFakeTool swaps newBuildTool for the duration of a test and returns the
// tools it creates.
func useFakeTool(t interface{ Cleanup(func()) }, fail lifecycle.Step) *[]*fakeTool {
	var tools []*fakeTool
	saved := newBuildTool
	newBuildTool = func(_ *invocation, dirs toolDirs, _ io.Writer) lifecycle.BuildTool {
		f := &fakeTool{dirs: dirs, fail: fail}
		tools = append(tools, f)
		return f
	}
	t.Cleanup(func() { newBuildTool = saved })
	return &tools
}

// fakeVCS records syncs and serves fixed tags.
type fakeVCS struct {
	tags   []string
	synced []string
	err    error
}

func (v *fakeVCS) Sync(ctx context.Context, remote, ref, dir string) error {
	if v.err != nil {
		return v.err
	}
	v.synced = append(v.synced, remote+"@"+ref)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("project(clickhouse-cpp)\n"), 0o644)
}

func (v *fakeVCS) Tags(ctx context.Context, remote string) ([]string, error) {
	return v.tags, v.err
}
