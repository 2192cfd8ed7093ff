package exec

import (
	"bytes"
	"context"
	"errors"
	osexec "os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "git", CommandLine("git"))
	assert.Equal(t, "git push --tags", CommandLine("git", "push", "--tags"))
}

func TestMockRunnerRecordsCalls(t *testing.T) {
	m := NewMockRunner()
	ctx := context.Background()

	_, _ = m.Output(ctx, "/repo", "git", "status", "--porcelain")
	_ = m.Run(ctx, "/repo", "git", "push")

	require.Len(t, m.Calls, 2)
	assert.Equal(t, "/repo", m.Calls[0].Dir)
	assert.Equal(t, []string{"git status --porcelain", "git push"}, m.Lines())
	assert.True(t, m.Called("git push"))
	assert.False(t, m.Called("bump2version"))
}

func TestMockRunnerResponsePrecedence(t *testing.T) {
	m := NewMockRunner()
	m.AddResponse("git", MockResponse{Stdout: []byte("generic")})
	m.AddResponse("git rev-parse --abbrev-ref HEAD", MockResponse{Stdout: []byte("main\n")})

	out, err := m.Output(context.Background(), "", "git", "rev-parse", "--abbrev-ref", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "main\n", string(out))

	out, err = m.Output(context.Background(), "", "git", "status", "--porcelain")
	require.NoError(t, err)
	assert.Equal(t, "generic", string(out))
}

func TestMockRunnerCombinedOutput(t *testing.T) {
	m := NewMockRunner()
	boom := errors.New("boom")
	m.AddResponse("pip", MockResponse{Stdout: []byte("out "), Stderr: []byte("err"), Err: boom})

	out, err := m.CombinedOutput(context.Background(), "", "pip", "install")
	assert.Equal(t, "out err", string(out))
	assert.ErrorIs(t, err, boom)
}

func TestMockRunnerLookPath(t *testing.T) {
	m := NewMockRunner()
	m.AddPath("code", "/usr/bin/code")

	p, err := m.LookPath("code")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/code", p)

	_, err = m.LookPath("code-insiders")
	assert.ErrorIs(t, err, osexec.ErrNotFound)
}

func TestOSRunner(t *testing.T) {
	if _, err := osexec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	var stdout bytes.Buffer
	r := &OSRunner{Stdout: &stdout, Stderr: &stdout}
	ctx := context.Background()

	out, err := r.Output(ctx, "", "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))

	require.NoError(t, r.Run(ctx, "", "echo", "streamed"))
	assert.Equal(t, "streamed\n", stdout.String())
}

func TestOSRunnerPropagatesExitError(t *testing.T) {
	if _, err := osexec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	r := &OSRunner{}
	err := r.Run(context.Background(), "", "false")

	var exitErr *osexec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.NotEqual(t, 0, exitErr.ExitCode())
}
