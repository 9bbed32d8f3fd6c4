// Package vcs fetches package sources from git remotes.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/mod/semver"
)

// VCS defines the version control operations used to fetch sources.
type VCS interface {
	// Sync ensures dir holds a checkout of remote at ref. ref can be a
	// branch, tag or commit hash. dir is created when missing.
	Sync(ctx context.Context, remote, ref, dir string) error

	// Tags returns all tags from the remote repository.
	Tags(ctx context.Context, remote string) ([]string, error)
}

// gitVCS implements VCS using git.
type gitVCS struct {
	git string
}

// GitOption configures gitVCS.
type GitOption func(*gitVCS)

// WithGitPath sets a custom git executable path.
func WithGitPath(path string) GitOption {
	return func(g *gitVCS) {
		g.git = path
	}
}

// NewGitVCS creates a new git VCS instance.
func NewGitVCS(opts ...GitOption) VCS {
	g := &gitVCS{git: "git"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gitVCS) ensureInit(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); errors.Is(err, fs.ErrNotExist) {
		return g.run(ctx, dir, "init", "--quiet")
	}
	return nil
}

func (g *gitVCS) Sync(ctx context.Context, remote, ref, dir string) error {
	log.Ctx(ctx).Debug().Str("remote", remote).Str("ref", ref).Str("dir", dir).Msg("sync source")
	if err := g.ensureInit(ctx, dir); err != nil {
		return err
	}
	if err := g.run(ctx, dir, "fetch", "--depth", "1", remote, ref); err != nil {
		return fmt.Errorf("fetch %s: %w", ref, err)
	}
	if err := g.run(ctx, dir, "checkout", "--quiet", "--force", "FETCH_HEAD"); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	return nil
}

func (g *gitVCS) Tags(ctx context.Context, remote string) ([]string, error) {
	output, err := g.output(ctx, "", "ls-remote", "--tags", "--refs", remote)
	if err != nil {
		return nil, fmt.Errorf("list remote tags: %w", err)
	}

	var tags []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		// format: <hash>\trefs/tags/<tag>
		_, ref, ok := strings.Cut(line, "\t")
		if ok {
			tags = append(tags, strings.TrimPrefix(ref, "refs/tags/"))
		}
	}
	return tags, nil
}

func (g *gitVCS) run(ctx context.Context, dir string, args ...string) error {
	_, err := g.output(ctx, dir, args...)
	return err
}

func (g *gitVCS) output(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.git, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s", msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

// Releases filters tags down to semantic versions, oldest first.
func Releases(tags []string) []string {
	var out []string
	for _, t := range tags {
		if semver.IsValid(t) && semver.Prerelease(t) == "" {
			out = append(out, t)
		}
	}
	semver.Sort(out)
	return out
}
