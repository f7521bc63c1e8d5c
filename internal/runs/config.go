package runs

type Config struct {
	// LogLimit caps the output bytes kept per run, oldest dropped first;
	// 0 keeps everything.
	LogLimit int
}
