package cvs

type MessageSink interface {
	ShowError(text string)
	ShowInfo(text string)
	ShowModalInfo(text string)
}

type LogSink interface {
	Append(text string)
}

type ProgressSink interface {
	Report(p Progress)
}

// DiffViewer presents two files side by side. The returned channel is
// closed when the view is gone; nil means the files are no longer needed
// once ShowDiff returns.
type DiffViewer interface {
	ShowDiff(left, right, title string) <-chan struct{}
}

// Sinks collects the collaborators of one Execute call. Nil members
// discard what they would receive.
type Sinks struct {
	Messages MessageSink
	Log      LogSink
	Progress ProgressSink
	Diff     DiffViewer
}

func (s Sinks) withDefaults() Sinks {
	if s.Messages == nil {
		s.Messages = nopSink{}
	}
	if s.Log == nil {
		s.Log = nopSink{}
	}
	if s.Progress == nil {
		s.Progress = nopSink{}
	}
	if s.Diff == nil {
		s.Diff = nopSink{}
	}
	return s
}

type nopSink struct{}

func (nopSink) ShowError(string)                                {}
func (nopSink) ShowInfo(string)                                 {}
func (nopSink) ShowModalInfo(string)                            {}
func (nopSink) Append(string)                                   {}
func (nopSink) Report(Progress)                                 {}
func (nopSink) ShowDiff(string, string, string) <-chan struct{} { return nil }
