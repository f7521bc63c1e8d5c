package session

type Config struct {
	// Persist keeps the last commit comment across restarts.
	Persist bool
}
