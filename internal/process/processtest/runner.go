// Package processtest provides a scripted process.Runner for tests.
package processtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/cvsbridge/cvsbridge/internal/process"
)

// Script describes how one fake process behaves.
type Script struct {
	Stdout []string
	Stderr []string
	Code   int

	// SpawnErr makes Start fail; it is wrapped with process.ErrSpawn.
	SpawnErr error
	// OnStart runs before any output is produced, e.g. to write files the
	// real client would create.
	OnStart func(req process.Request)
	// UntilCancel keeps the process alive after its output until Cancel.
	UntilCancel bool
}

// Runner replays scripts in order; the last script repeats.
type Runner struct {
	mu      sync.Mutex
	scripts []Script
	calls   []process.Request
	handles []*Handle
}

func NewRunner(scripts ...Script) *Runner {
	if len(scripts) == 0 {
		scripts = []Script{{}}
	}
	return &Runner{scripts: scripts}
}

// Start implements process.Runner.
func (r *Runner) Start(ctx context.Context, req process.Request) (process.Handle, error) {
	r.mu.Lock()
	script := r.scripts[min(len(r.calls), len(r.scripts)-1)]
	r.calls = append(r.calls, req)
	r.mu.Unlock()

	if script.SpawnErr != nil {
		return nil, fmt.Errorf("%w: %w", process.ErrSpawn, script.SpawnErr)
	}

	if script.OnStart != nil {
		script.OnStart(req)
	}

	h := &Handle{
		stdout:  make(chan []byte),
		stderr:  make(chan []byte),
		done:    make(chan struct{}),
		cancel:  make(chan struct{}),
		started: make(chan struct{}),
	}

	r.mu.Lock()
	r.handles = append(r.handles, h)
	r.mu.Unlock()

	stop := context.AfterFunc(ctx, h.Cancel)
	go h.run(script, stop)

	return h, nil
}

// Calls returns the requests seen so far.
func (r *Runner) Calls() []process.Request {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]process.Request(nil), r.calls...)
}

func (r *Runner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.calls)
}

// Handle returns the i-th started process or nil.
func (r *Runner) Handle(i int) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i < 0 || i >= len(r.handles) {
		return nil
	}
	return r.handles[i]
}

var _ process.Runner = (*Runner)(nil)
