package cvs

import "time"

type Config struct {
	// Client executable, looked up in PATH when not absolute.
	Binary string
	// Repository used when a request leaves the root empty.
	DefaultRoot string

	ProgressInterval time.Duration
	ProgressWidth    int

	BackupSuffix    string
	CleanCopySuffix string
}

func DefaultConfig() Config {
	//nolint:mnd //default values
	return Config{
		Binary:           "cvs",
		DefaultRoot:      "",
		ProgressInterval: 500 * time.Millisecond,
		ProgressWidth:    50,
		BackupSuffix:     ".temp",
		CleanCopySuffix:  "-clean-copy",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Binary == "" {
		c.Binary = d.Binary
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = d.ProgressInterval
	}
	if c.ProgressWidth <= 0 {
		c.ProgressWidth = d.ProgressWidth
	}
	if c.BackupSuffix == "" {
		c.BackupSuffix = d.BackupSuffix
	}
	if c.CleanCopySuffix == "" {
		c.CleanCopySuffix = d.CleanCopySuffix
	}
	return c
}
