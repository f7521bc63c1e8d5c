package processtest

import (
	"sync"
	"sync/atomic"

	"github.com/cvsbridge/cvsbridge/internal/process"
)

type Handle struct {
	stdout chan []byte
	stderr chan []byte

	done    chan struct{}
	started chan struct{}
	exit    process.Exit

	cancel     chan struct{}
	cancelOnce sync.Once
	cancelled  atomic.Bool
}

// Stdout implements process.Handle.
func (h *Handle) Stdout() <-chan []byte {
	return h.stdout
}

// Stderr implements process.Handle.
func (h *Handle) Stderr() <-chan []byte {
	return h.stderr
}

// Wait implements process.Handle.
func (h *Handle) Wait() (process.Exit, error) {
	<-h.done
	return h.exit, nil
}

// Cancel implements process.Handle.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		h.cancelled.Store(true)
		close(h.cancel)
	})
}

// Cancelled reports whether a termination request was received.
func (h *Handle) Cancelled() bool {
	return h.cancelled.Load()
}

// Started is closed once all scripted output has been consumed.
func (h *Handle) Started() <-chan struct{} {
	return h.started
}

func (h *Handle) run(script Script, stop func() bool) {
	defer close(h.done)
	defer stop()

	for _, chunk := range script.Stdout {
		h.stdout <- []byte(chunk)
	}
	for _, chunk := range script.Stderr {
		h.stderr <- []byte(chunk)
	}
	close(h.started)

	if script.UntilCancel {
		<-h.cancel
	}

	close(h.stdout)
	close(h.stderr)

	h.exit = process.Exit{Code: script.Code}
	if h.Cancelled() {
		h.exit = process.Exit{Code: -1, Signal: "terminated"}
	}
}

var _ process.Handle = (*Handle)(nil)
