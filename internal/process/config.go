package process

import "time"

type Config struct {
	// Delay between the termination signal and a forced kill of a cancelled
	// process. Zero leaves a process that ignores termination running.
	KillAfter time.Duration
}
