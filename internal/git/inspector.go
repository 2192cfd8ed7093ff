// Package git queries and updates the local repository through the git CLI.
package git

import (
	"context"
	"strings"

	"github.com/joss/devtask/internal/exec"
)

// Inspector runs git commands in a fixed repository directory.
// Queries are never cached: every call reflects the repository as it is now.
type Inspector struct {
	runner exec.Runner
	dir    string
}

// NewInspector creates an inspector for the repository at dir.
func NewInspector(runner exec.Runner, dir string) *Inspector {
	return &Inspector{runner: runner, dir: dir}
}

// Dir returns the repository directory.
func (i *Inspector) Dir() string {
	return i.dir
}

func (i *Inspector) output(ctx context.Context, args ...string) (string, error) {
	out, err := i.runner.Output(ctx, i.dir, "git", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// HasChanges reports whether the working tree has uncommitted changes,
// including untracked files. Any porcelain output counts.
func (i *Inspector) HasChanges(ctx context.Context) (bool, error) {
	status, err := i.output(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(status) > 0, nil
}

// CurrentBranch returns the name of the checked out branch
// ("HEAD" when detached).
func (i *Inspector) CurrentBranch(ctx context.Context) (string, error) {
	return i.output(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// ShortHead returns the abbreviated hash of HEAD.
func (i *Inspector) ShortHead(ctx context.Context) (string, error) {
	return i.output(ctx, "rev-parse", "--short", "HEAD")
}

// Push pushes the current branch to its upstream.
func (i *Inspector) Push(ctx context.Context) error {
	return i.runner.Run(ctx, i.dir, "git", "push")
}

// PushTags pushes all local tags.
func (i *Inspector) PushTags(ctx context.Context) error {
	return i.runner.Run(ctx, i.dir, "git", "push", "--tags")
}
