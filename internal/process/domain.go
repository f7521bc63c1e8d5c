package process

// Request describes a single external client invocation.
type Request struct {
	Executable string
	Args       []string
	Dir        string
}

// Exit is the terminal state of a process. Signal is set when the process
// was stopped by a signal instead of exiting on its own.
type Exit struct {
	Code   int
	Signal string
}

func (e Exit) Success() bool {
	return e.Code == 0 && e.Signal == ""
}
