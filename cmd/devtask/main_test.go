package main

import (
	"bytes"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("CI", "")
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// gitRepo initialises a clean repository on main with one commit.
func gitRepo(t *testing.T) string {
	t.Helper()
	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	git := func(args ...string) {
		cmd := osexec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	git("init", "-q")
	git("symbolic-ref", "HEAD", "refs/heads/main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.py"), []byte("from setuptools import setup\n"), 0644))
	git("add", "setup.py")
	git("-c", "commit.gpgsign=false", "commit", "-q", "-m", "initial")
	return dir
}

func TestVersionCommand(t *testing.T) {
	r := runCLI(t, "", "version")

	assert.Equal(t, exitOK, r.code)
	assert.Equal(t, "devtask dev (commit none, built unknown)\n", r.stdout)
}

func TestVersionFlag(t *testing.T) {
	r := runCLI(t, "", "--version")

	assert.Equal(t, exitOK, r.code)
	assert.Contains(t, r.stdout, "dev (commit none, built unknown)")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	r := runCLI(t, "", "--bogus")

	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, "Error: unknown flag: --bogus")
	assert.Contains(t, r.stderr, "Usage:")
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	r := runCLI(t, "", "--project", t.TempDir(), "deploy")

	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, `unknown command "deploy"`)
}

func TestDevArgumentsAreUsageError(t *testing.T) {
	r := runCLI(t, "", "--project", t.TempDir(), "dev", "extra")

	assert.Equal(t, exitUsage, r.code)
}

func TestInvalidLogLevelIsUsageError(t *testing.T) {
	r := runCLI(t, "", "--project", t.TempDir(), "--log-level", "loud", "status")

	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, "loud")
}

func TestDevRefusesExistingVenv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".venv"), 0755))

	r := runCLI(t, "", "--project", dir, "dev")

	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stderr, "already a virtual environment")
	assert.Contains(t, r.stderr, "✗ session dev failed")
	assert.NoFileExists(t, filepath.Join(dir, ".vscode", "settings.json"))
}

func TestDefaultSessionShowsHelpOnCI(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	t.Setenv("CI", "true")

	code := run([]string{"--project", dir}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "Usage:")
	assert.NoDirExists(t, filepath.Join(dir, ".venv"))
}

func TestDefaultSessionShowsHelpWhenVenvExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".venv"), 0755))

	r := runCLI(t, "", "--project", dir)

	assert.Equal(t, exitOK, r.code)
	assert.Contains(t, r.stdout, "Sessions:")
}

func TestStatus(t *testing.T) {
	dir := gitRepo(t)

	r := runCLI(t, "", "--project", dir, "status")

	assert.Equal(t, exitOK, r.code)
	assert.Contains(t, r.stdout, "DEVTASK STATUS")
	assert.Contains(t, r.stdout, "main (clean)")
	assert.Contains(t, r.stdout, "setup.py")
}

func TestReleaseRejectsBadKindAfterChecks(t *testing.T) {
	dir := gitRepo(t)

	r := runCLI(t, "", "--project", dir, "release", "--", "bogus")

	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, `invalid choice: "bogus"`)
	assert.Contains(t, r.stderr, "release -- {major|minor|patch}")
}

func TestReleaseDeclined(t *testing.T) {
	dir := gitRepo(t)

	r := runCLI(t, "yes\n", "--project", dir, "release", "--", "patch")

	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stdout, "You are about to bump the 'patch' version. Are you sure? [y/n]: ")
	assert.Contains(t, r.stderr, "You said no when prompted to bump the 'patch' version.")
	assert.NoDirExists(t, filepath.Join(dir, ".devtask"))
}

func TestReleaseRequiresCleanTree(t *testing.T) {
	dir := gitRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("wip"), 0644))

	r := runCLI(t, "y\n", "--project", dir, "release", "--", "bogus")

	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stderr, "All changes must be committed or removed before release")
	assert.Empty(t, r.stdout)
}

func TestAuditedReleaseKeepsTreeClean(t *testing.T) {
	dir := gitRepo(t)
	t.Setenv("DEVTASK_AUDIT", "true")

	for i := 0; i < 2; i++ {
		r := runCLI(t, "n\n", "--project", dir, "release", "--", "minor")
		assert.Equal(t, exitFailure, r.code)
		assert.Contains(t, r.stderr, "You said no when prompted")
	}

	data, err := os.ReadFile(filepath.Join(dir, ".devtask", "history.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"session":"release"`)
	assert.Contains(t, lines[1], `"status":"error"`)
	assert.Contains(t, lines[1], `"is_dirty":false`)
}
