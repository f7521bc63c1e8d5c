package runs

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/diffview"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"go.uber.org/zap"
)

// recorder collects everything a run reports and mirrors it to the log.
type recorder struct {
	mu       sync.Mutex
	messages []journal.Message
	log      []string
	logSize  int
	dropped  int
	progress cvs.Progress
	diff     string

	logLimit int
	onState  func(state cvs.State)
	viewer   *diffview.Viewer

	logger *zap.Logger
}

func newRecorder(logLimit int, onState func(cvs.State), logger *zap.Logger) *recorder {
	r := &recorder{
		logLimit: logLimit,
		onState:  onState,

		logger: logger,
	}
	r.viewer = diffview.NewViewer(func(d diffview.Diff) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.diff = d.Text()
	}, logger)

	return r
}

func (r *recorder) sinks() cvs.Sinks {
	return cvs.Sinks{
		Messages: r,
		Log:      r,
		Progress: r,
		Diff:     r.viewer,
	}
}

// ShowError implements cvs.MessageSink.
func (r *recorder) ShowError(text string) {
	r.message(journal.LevelError, text)
	r.logger.Warn("operation error", zap.String("message", text))
}

// ShowInfo implements cvs.MessageSink.
func (r *recorder) ShowInfo(text string) {
	r.message(journal.LevelInfo, text)
	r.logger.Info("operation info", zap.String("message", text))
}

// ShowModalInfo implements cvs.MessageSink.
func (r *recorder) ShowModalInfo(text string) {
	r.message(journal.LevelModal, text)
	r.logger.Info("operation info", zap.String("message", text))
}

// Append implements cvs.LogSink.
func (r *recorder) Append(text string) {
	r.mu.Lock()
	r.log = append(r.log, text)
	r.logSize += len(text)
	r.trim()
	r.mu.Unlock()

	r.logger.Debug("client output", zap.String("chunk", text))
}

// Report implements cvs.ProgressSink.
func (r *recorder) Report(p cvs.Progress) {
	r.mu.Lock()
	changed := p.State != r.progress.State
	r.progress = p
	r.mu.Unlock()

	if changed && r.onState != nil {
		r.onState(p.State)
	}
}

// trim drops the oldest output until the log fits into logLimit bytes. A
// single oversized chunk keeps its tail.
func (r *recorder) trim() {
	if r.logLimit <= 0 {
		return
	}

	for r.logSize > r.logLimit && len(r.log) > 1 {
		r.logSize -= len(r.log[0])
		r.dropped += len(r.log[0])
		r.log = r.log[1:]
	}

	if r.logSize > r.logLimit {
		chunk := r.log[0]
		cut := len(chunk) - r.logLimit
		for cut < len(chunk) && !utf8.RuneStart(chunk[cut]) {
			cut++
		}
		r.log[0] = chunk[cut:]
		r.logSize -= cut
		r.dropped += cut
	}
}

// truncated reports how many bytes of output were dropped.
func (r *recorder) truncated() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.dropped
}

func (r *recorder) message(level journal.Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, journal.Message{Level: level, Text: text, At: time.Now()})
}

// fill copies what was collected so far into rec.
func (r *recorder) fill(rec *journal.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.Messages = append([]journal.Message(nil), r.messages...)
	rec.Log = append([]string(nil), r.log...)
	if r.diff != "" {
		rec.Diff = r.diff
	}
	if r.progress.State != "" {
		rec.Progress = r.progress.Text
		if !r.progress.State.Terminal() {
			rec.State = r.progress.State
		}
	}
}
