//go:build unix

package runtime

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignalCancelsContext(t *testing.T) {
	m := NewShutdownManager(context.Background(), nil)
	m.ListenForSignals()
	defer m.Shutdown()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-m.Context().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled by SIGTERM")
	}
}
