package process

import (
	"errors"
	"io"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
)

const chunkSize = 32 * 1024

type execHandle struct {
	cmd *exec.Cmd

	stdout chan []byte
	stderr chan []byte
	pumps  sync.WaitGroup

	done chan struct{}
	exit Exit
	err  error

	cancelOnce sync.Once
	killAfter  time.Duration

	logger *zap.Logger
}

func newExecHandle(cmd *exec.Cmd, killAfter time.Duration, logger *zap.Logger) *execHandle {
	return &execHandle{
		cmd: cmd,

		stdout: make(chan []byte),
		stderr: make(chan []byte),

		done: make(chan struct{}),

		killAfter: killAfter,

		logger: logger,
	}
}

// Stdout implements Handle.
func (h *execHandle) Stdout() <-chan []byte {
	return h.stdout
}

// Stderr implements Handle.
func (h *execHandle) Stderr() <-chan []byte {
	return h.stderr
}

// Wait implements Handle.
func (h *execHandle) Wait() (Exit, error) {
	<-h.done
	return h.exit, h.err
}

// Cancel implements Handle.
func (h *execHandle) Cancel() {
	h.cancelOnce.Do(func() {
		select {
		case <-h.done:
			return
		default:
		}

		h.logger.Info("terminating process")
		if err := terminate(h.cmd.Process); err != nil {
			h.logger.Warn("failed to terminate process", zap.Error(err))
		}

		if h.killAfter <= 0 {
			return
		}

		go func() {
			timer := time.NewTimer(h.killAfter)
			defer timer.Stop()

			select {
			case <-h.done:
			case <-timer.C:
				h.logger.Warn("process ignored termination, killing", zap.Duration("after", h.killAfter))
				if err := kill(h.cmd.Process); err != nil {
					h.logger.Error("failed to kill process", zap.Error(err))
				}
			}
		}()
	})
}

func (h *execHandle) pump(r io.Reader, ch chan<- []byte) {
	h.pumps.Add(1)

	go func() {
		defer h.pumps.Done()
		defer close(ch)

		buf := make([]byte, chunkSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				ch <- chunk
			}
			if err != nil {
				return
			}
		}
	}()
}

// wait reaps the process once both pipes hit EOF, as os/exec requires.
func (h *execHandle) wait(stop func() bool) {
	h.pumps.Wait()
	err := h.cmd.Wait()
	stop()

	h.exit = Exit{Code: -1, Signal: ""}
	if state := h.cmd.ProcessState; state != nil {
		h.exit = Exit{Code: state.ExitCode(), Signal: signalOf(state)}
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		h.err = err
	}

	h.logger.Debug("process exited", zap.Int("code", h.exit.Code), zap.String("signal", h.exit.Signal))
	close(h.done)
}

var _ Handle = (*execHandle)(nil)
