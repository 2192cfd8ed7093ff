package runtime

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/devtask/internal/logging"
)

func TestShutdownRunsHandlersLIFO(t *testing.T) {
	m := NewShutdownManager(context.Background(), nil)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		m.Register("handler", func() error {
			order = append(order, i)
			return nil
		})
	}

	m.Shutdown()

	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestShutdownCancelsContext(t *testing.T) {
	m := NewShutdownManager(context.Background(), nil)
	require.NoError(t, m.Context().Err())

	m.Shutdown()

	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
}

func TestShutdownOnlyOnce(t *testing.T) {
	m := NewShutdownManager(context.Background(), nil)
	calls := 0
	m.Register("count", func() error {
		calls++
		return nil
	})

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, 1, calls)
}

func TestShutdownLogsHandlerErrors(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New("runtime", logging.WithOutput(&buf), logging.WithFormat(logging.FormatJSON))
	m := NewShutdownManager(context.Background(), log)
	ran := false
	m.Register("first", func() error {
		ran = true
		return nil
	})
	m.Register("audit", func() error { return errors.New("disk full") })

	m.Shutdown()

	assert.True(t, ran)
	assert.Contains(t, buf.String(), "Cleanup failed")
	assert.Contains(t, buf.String(), "disk full")
}
