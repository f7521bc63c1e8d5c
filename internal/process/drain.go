package process

// Drain forwards chunks from both streams of h until they are closed and
// then returns the exit of h. Nil callbacks discard their stream.
func Drain(h Handle, onStdout, onStderr func([]byte)) (Exit, error) {
	stdout, stderr := h.Stdout(), h.Stderr()

	for stdout != nil || stderr != nil {
		select {
		case chunk, ok := <-stdout:
			if !ok {
				stdout = nil
				continue
			}
			if onStdout != nil {
				onStdout(chunk)
			}
		case chunk, ok := <-stderr:
			if !ok {
				stderr = nil
				continue
			}
			if onStderr != nil {
				onStderr(chunk)
			}
		}
	}

	return h.Wait()
}
