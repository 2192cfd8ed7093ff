// Package runtime ties the process lifetime to a cancellable context.
package runtime

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joss/devtask/internal/logging"
)

// ShutdownFunc is a cleanup function called during shutdown.
type ShutdownFunc func() error

// ShutdownManager cancels its context on SIGINT or SIGTERM and runs
// cleanup handlers once when the process ends.
type ShutdownManager struct {
	mu       sync.Mutex
	handlers []namedHandler
	ctx      context.Context
	cancel   context.CancelFunc
	signals  chan os.Signal
	once     sync.Once
	log      *logging.Logger
}

type namedHandler struct {
	name string
	fn   ShutdownFunc
}

// NewShutdownManager creates a manager whose context derives from parent.
func NewShutdownManager(parent context.Context, log *logging.Logger) *ShutdownManager {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = logging.Nop()
	}
	return &ShutdownManager{
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Register adds a cleanup handler. Handlers run last registered, first called.
func (m *ShutdownManager) Register(name string, fn ShutdownFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, namedHandler{name: name, fn: fn})
}

// Context returns a context that is cancelled when shutdown begins.
// Child processes started with it are killed on cancellation.
func (m *ShutdownManager) Context() context.Context {
	return m.ctx
}

// ListenForSignals cancels the context on SIGINT or SIGTERM.
// It is non-blocking and should be called once at startup.
func (m *ShutdownManager) ListenForSignals() {
	m.signals = make(chan os.Signal, 1)
	signal.Notify(m.signals, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig, ok := <-m.signals
		if !ok {
			return
		}
		m.log.Warn("Interrupted", map[string]interface{}{"signal": sig.String()}, nil)
		m.cancel()
	}()
}

// Shutdown cancels the context, stops listening for signals and runs the
// handlers. Only the first call has an effect.
func (m *ShutdownManager) Shutdown() {
	m.once.Do(m.performShutdown)
}

func (m *ShutdownManager) performShutdown() {
	m.cancel()
	if m.signals != nil {
		signal.Stop(m.signals)
		close(m.signals)
	}

	m.mu.Lock()
	handlers := make([]namedHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		h := handlers[i]
		if err := h.fn(); err != nil {
			m.log.Warn("Cleanup failed", map[string]interface{}{"handler": h.name}, err)
		}
	}
}
