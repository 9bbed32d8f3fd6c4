// Package cmake drives the configure, build, test and install steps of a
// CMake project.
package cmake

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/woorton/clickhouse-cpp/internal/lifecycle"
	"github.com/woorton/clickhouse-cpp/mod/module"
)

type defineValue struct {
	value    string
	typeName string
}

// Locator finds the install root of a dependency package.
type Locator interface {
	Locate(mod module.Version) (string, error)
}

// Runner runs one external command. env is the complete child environment.
type Runner func(ctx context.Context, name string, args, env []string, out io.Writer) error

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args, env []string, out io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// CMake drives CMake-based builds. It implements lifecycle.BuildTool.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	defines    map[string]defineValue
	env        map[string]string

	locator Locator
	run     Runner
	out     io.Writer
}

var _ lifecycle.BuildTool = (*CMake)(nil)

// New returns a ready-to-use CMake.
func New(sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		defines:    make(map[string]defineValue),
		env:        make(map[string]string),
		run:        ExecRunner,
		out:        os.Stderr,
	}
}

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) { c.toolchain = path }

// Locator sets how requirements are found during Configure.
func (c *CMake) Locator(l Locator) { c.locator = l }

// Runner replaces the command runner.
func (c *CMake) Runner(r Runner) { c.run = r }

// Output sets where command output is written.
func (c *CMake) Output(w io.Writer) { c.out = w }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
}

// Use extends the child environment so that CMake and compilers find
// headers, libraries and pkg-config files of a dependency installed at root.
func (c *CMake) Use(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if isDir(pkgconfigDir) {
		c.prependPath("PKG_CONFIG_PATH", pkgconfigDir)
	}
	c.prependPath("CMAKE_PREFIX_PATH", root)
	if isDir(includeDir) {
		c.prependPath("CMAKE_INCLUDE_PATH", includeDir)
	}
	if isDir(libDir) {
		c.prependPath("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if isDir(includeDir) {
			c.prependPath("INCLUDE", includeDir)
		}
		if isDir(libDir) {
			c.prependPath("LIB", libDir)
		}
	} else {
		if isDir(includeDir) {
			c.appendFlag("CPPFLAGS", "-I"+includeDir)
		}
		if isDir(libDir) {
			c.appendFlag("LDFLAGS", "-L"+libDir)
		}
	}
}

// Configure locates every requirement of plan, applies its definitions and
// runs "cmake -S <source> -B <build>".
func (c *CMake) Configure(ctx context.Context, plan lifecycle.Plan) error {
	for _, req := range plan.Requirements {
		if c.locator == nil {
			return fmt.Errorf("cmake: no locator for requirement %s", req.Version)
		}
		root, err := c.locator.Locate(req.Version)
		if err != nil {
			return fmt.Errorf("cmake: requirement %s: %w", req.Version, err)
		}
		log.Ctx(ctx).Debug().Str("require", req.Version.String()).Str("root", root).Msg("use dependency")
		c.Use(root)
	}
	for _, k := range plan.Definitions.Keys() {
		v, _ := plan.Definitions.Get(k)
		switch v {
		case "ON":
			c.DefineBool(k, true)
		case "OFF":
			c.DefineBool(k, false)
		default:
			c.Define(k, v)
		}
	}

	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	args := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	args = append(args, c.definesArgs()...)
	return c.exec(ctx, "cmake", args)
}

// Build runs "cmake --build <build>".
func (c *CMake) Build(ctx context.Context) error {
	args := []string{"--build", c.buildDir}
	if c.buildType != "" {
		args = append(args, "--config", c.buildType)
	}
	return c.exec(ctx, "cmake", args)
}

// Test runs the project's tests with ctest.
func (c *CMake) Test(ctx context.Context) error {
	args := []string{"--test-dir", c.buildDir, "--output-on-failure"}
	if c.buildType != "" {
		args = append(args, "-C", c.buildType)
	}
	return c.exec(ctx, "ctest", args)
}

// Install runs "cmake --install <build>".
func (c *CMake) Install(ctx context.Context) error {
	args := []string{"--install", c.buildDir}
	if c.installDir != "" {
		args = append(args, "--prefix", c.installDir)
	}
	if c.buildType != "" {
		args = append(args, "--config", c.buildType)
	}
	return c.exec(ctx, "cmake", args)
}

func (c *CMake) exec(ctx context.Context, name string, args []string) error {
	log.Ctx(ctx).Debug().Str("cmd", name).Strs("args", args).Msg("exec")

	tail := newTailBuffer(tailSize)
	out := io.Writer(tail)
	if c.out != nil {
		out = io.MultiWriter(c.out, tail)
	}
	if err := c.run(ctx, name, args, c.environ(), out); err != nil {
		return &RunError{Cmd: name, Args: args, Err: err, Output: tail.String()}
	}
	return nil
}

// environ returns the process environment with the overrides from Use.
func (c *CMake) environ() []string {
	env := os.Environ()
	if len(c.env) == 0 {
		return env
	}
	out := make([]string, 0, len(env)+len(c.env))
	for _, kv := range env {
		k, _, _ := strings.Cut(kv, "=")
		if _, ok := c.env[k]; !ok {
			out = append(out, kv)
		}
	}
	keys := make([]string, 0, len(c.env))
	for k := range c.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+c.env[k])
	}
	return out
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := c.defines[k]
		args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
	}
	return args
}

func (c *CMake) getenv(key string) string {
	if v, ok := c.env[key]; ok {
		return v
	}
	return os.Getenv(key)
}

// prependPath prepends value to a PATH-style variable.
func (c *CMake) prependPath(key, value string) {
	if cur := c.getenv(key); cur != "" {
		value += string(os.PathListSeparator) + cur
	}
	c.env[key] = value
}

// appendFlag appends a space-separated flag to a variable.
func (c *CMake) appendFlag(key, flag string) {
	if cur := c.getenv(key); cur != "" {
		flag = cur + " " + flag
	}
	c.env[key] = flag
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
