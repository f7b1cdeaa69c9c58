package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels a context on SIGINT or SIGTERM and runs cleanup hooks.
type Handler struct {
	ctx        context.Context
	cancel     context.CancelFunc
	once       sync.Once
	cleanupFns []func()
	mu         sync.Mutex
	sigChan    chan os.Signal
	onSignal   func(os.Signal)
}

// New creates a new shutdown handler derived from parent
func New(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	return &Handler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the shutdown context
func (h *Handler) Context() context.Context {
	return h.ctx
}

// AddCleanup registers a cleanup function to be called on shutdown
func (h *Handler) AddCleanup(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanupFns = append(h.cleanupFns, fn)
}

// OnSignal sets a callback invoked with the received signal before shutdown.
func (h *Handler) OnSignal(fn func(os.Signal)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSignal = fn
}

// Listen starts listening for shutdown signals
func (h *Handler) Listen() {
	h.sigChan = make(chan os.Signal, 1)
	signal.Notify(h.sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-h.sigChan:
			h.mu.Lock()
			fn := h.onSignal
			h.mu.Unlock()
			if fn != nil {
				fn(sig)
			}
			h.Shutdown()
		case <-h.ctx.Done():
		}
	}()
}

// Shutdown cancels the context and runs the cleanup functions in reverse
// registration order. Only the first call has any effect.
func (h *Handler) Shutdown() {
	h.once.Do(func() {
		h.cancel()

		h.mu.Lock()
		fns := h.cleanupFns
		h.mu.Unlock()

		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	})
}

// Stop releases the signal subscription and runs Shutdown.
func (h *Handler) Stop() {
	if h.sigChan != nil {
		signal.Stop(h.sigChan)
	}
	h.Shutdown()
}
