// Package selftest inspects the local development setup for the status
// command.
package selftest

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/term"

	"github.com/joss/devtask/internal/config"
	"github.com/joss/devtask/internal/exec"
	"github.com/joss/devtask/internal/render"
)

// ManifestPattern matches the files that declare a python project.
const ManifestPattern = "{pyproject.toml,setup.cfg,setup.py}"

// Repository is the git state the report reads.
type Repository interface {
	CurrentBranch(ctx context.Context) (string, error)
	HasChanges(ctx context.Context) (bool, error)
}

// Tool is a program looked up on PATH.
type Tool struct {
	Name string
	Path string
}

// Found reports whether the tool is on PATH.
func (t Tool) Found() bool { return t.Path != "" }

// Report describes the development setup.
type Report struct {
	StdoutTTY bool
	StdinTTY  bool
	CI        bool

	VenvPath    string
	VenvExists  bool
	Interpreter string

	Tools     []Tool
	Manifests []string

	Branch   string
	Dirty    bool
	GitError string

	Warnings []string
}

// Check inspects the environment. Missing tools are reported, never fatal.
func Check(ctx context.Context, cfg *config.Config, runner exec.Runner, repo Repository) *Report {
	r := &Report{
		StdoutTTY:   term.IsTerminal(int(os.Stdout.Fd())),
		StdinTTY:    term.IsTerminal(int(os.Stdin.Fd())),
		CI:          cfg.Env.CI,
		VenvPath:    cfg.VenvPath(),
		Interpreter: cfg.VenvPython(),
	}

	if info, err := os.Stat(r.VenvPath); err == nil && info.IsDir() {
		r.VenvExists = true
	}

	r.checkTools(cfg, runner)
	r.checkManifests(cfg.ProjectRoot)
	r.checkRepository(ctx, repo)
	return r
}

// ToolNames lists the programs the report looks for, in display order.
func ToolNames(cfg *config.Config) []string {
	names := []string{"git", cfg.VenvTool}
	names = append(names, cfg.EditorCommands...)
	for _, v := range cfg.PythonVersions {
		names = append(names, config.PythonCommand(v))
	}
	return names
}

func (r *Report) checkTools(cfg *config.Config, runner exec.Runner) {
	for _, name := range ToolNames(cfg) {
		t := Tool{Name: name}
		if path, err := runner.LookPath(name); err == nil {
			t.Path = path
		}
		r.Tools = append(r.Tools, t)
	}

	if !r.HasTool("git") {
		r.Warnings = append(r.Warnings, "git not found; release will fail")
	}
	if !r.HasTool(config.PythonCommand(cfg.DefaultPython)) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s not found; dev and release need it", config.PythonCommand(cfg.DefaultPython)))
	}
}

func (r *Report) checkManifests(root string) {
	matches, err := doublestar.Glob(os.DirFS(root), ManifestPattern)
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("manifest lookup failed: %v", err))
		return
	}
	sort.Strings(matches)
	r.Manifests = matches
	if len(matches) == 0 {
		r.Warnings = append(r.Warnings, "no pyproject.toml, setup.cfg or setup.py in project root")
	}
}

func (r *Report) checkRepository(ctx context.Context, repo Repository) {
	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		msg, _, _ := strings.Cut(strings.TrimSpace(err.Error()), "\n")
		r.GitError = render.Truncate(msg, 80)
		return
	}
	r.Branch = branch
	if dirty, err := repo.HasChanges(ctx); err == nil {
		r.Dirty = dirty
	}
}

// HasTool reports whether name was found on PATH.
func (r *Report) HasTool(name string) bool {
	for _, t := range r.Tools {
		if t.Name == name {
			return t.Found()
		}
	}
	return false
}

// Summary returns a human-readable summary.
func (r *Report) Summary() string {
	var sb strings.Builder
	w := render.NewWriter(&sb)

	w.Header("devtask status")
	w.Field("TTY", fmt.Sprintf("stdout=%s stdin=%s", yesNo(r.StdoutTTY), yesNo(r.StdinTTY)))
	w.Field("CI", yesNo(r.CI))

	if r.VenvExists {
		w.Field("Venv", r.VenvPath)
		w.Field("Interpreter", r.Interpreter)
	} else {
		w.Field("Venv", "missing (run devtask dev)")
	}

	switch {
	case r.GitError != "":
		w.Field("Git", "unavailable: "+r.GitError)
	case r.Dirty:
		w.Field("Git", r.Branch+" (uncommitted changes)")
	default:
		w.Field("Git", r.Branch+" (clean)")
	}

	w.Section("Tools")
	for _, t := range r.Tools {
		if t.Found() {
			w.Item("%s %-16s %s", render.BoolIcon(true), t.Name, t.Path)
		} else {
			w.Item("%s %-16s not found", render.BoolIcon(false), t.Name)
		}
	}

	w.Section("Manifests")
	if len(r.Manifests) == 0 {
		w.Item("none")
	}
	for _, m := range r.Manifests {
		w.Item("%s", m)
	}

	if len(r.Warnings) > 0 {
		w.Section("Warnings")
		for _, msg := range r.Warnings {
			w.Item("⚠ %s", msg)
		}
	}

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
