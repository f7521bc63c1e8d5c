package cvs

import (
	"strings"
	"sync"
	"time"
)

const progressPlaceholder = "starting up..."

// tracker holds the progress of one long-running operation and reports it
// on every change and on a fixed interval until finished.
type tracker struct {
	sink  ProgressSink
	width int

	mu    sync.Mutex
	state State
	text  string

	stop chan struct{}
	done chan struct{}
}

func startTracker(sink ProgressSink, interval time.Duration, width int) *tracker {
	t := &tracker{
		sink:  sink,
		width: width,

		state: StateStarting,
		text:  progressPlaceholder,

		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	t.report()
	go t.tick(interval)

	return t
}

func (t *tracker) tick(interval time.Duration) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.report()
		}
	}
}

func (t *tracker) running() {
	t.mu.Lock()
	t.state = StateRunning
	t.mu.Unlock()

	t.report()
}

func (t *tracker) update(chunk string) {
	t.mu.Lock()
	t.state = StateRunning
	t.text = progressText(chunk, t.width)
	t.mu.Unlock()

	t.report()
}

// finish stops the ticker and reports the terminal state once.
func (t *tracker) finish(state State) {
	close(t.stop)
	<-t.done

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()

	t.report()
}

func (t *tracker) report() {
	t.mu.Lock()
	p := Progress{State: t.state, Text: t.text}
	t.mu.Unlock()

	t.sink.Report(p)
}

// progressText keeps the first width runes of chunk without line breaks.
func progressText(chunk string, width int) string {
	runes := []rune(chunk)
	if len(runes) > width {
		runes = runes[:width]
	}

	return strings.NewReplacer("\r", "", "\n", "").Replace(string(runes))
}

// stripStatus drops the two-character status prefix ("U ", "P ") the client
// puts in front of every file it touches during checkout and update.
func stripStatus(chunk string) string {
	if len(chunk) < 2 || chunk[1] != ' ' {
		return chunk
	}
	if !strings.ContainsRune("UPACMR?", rune(chunk[0])) {
		return chunk
	}

	return chunk[2:]
}
