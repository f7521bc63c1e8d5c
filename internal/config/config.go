package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`

	OpenAPI openAPIConfig `koanf:"openapi"`
}

type openAPIConfig struct {
	Enabled    bool   `koanf:"enabled"`
	PublicHost string `koanf:"public_host"`
	PublicPath string `koanf:"public_path"`
}

type storageConfig struct {
	DataDir  string `koanf:"data_dir"`
	InMemory bool   `koanf:"in_memory"`
}

type cvsConfig struct {
	Binary           string        `koanf:"binary"`
	DefaultRoot      string        `koanf:"default_root"`
	ProgressInterval time.Duration `koanf:"progress_interval"`
	ProgressWidth    int           `koanf:"progress_width"`
	BackupSuffix     string        `koanf:"backup_suffix"`
	CleanCopySuffix  string        `koanf:"clean_copy_suffix"`
	KillAfter        time.Duration `koanf:"kill_after"`
	// Workspaces are the working copies absolute request paths may point into.
	Workspaces []string `koanf:"workspaces"`
}

type sessionConfig struct {
	Persist bool `koanf:"persist"`
}

type runsConfig struct {
	HistoryLimit int `koanf:"history_limit"`
	LogLimit     int `koanf:"log_limit"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage storageConfig `koanf:"storage"`
	CVS     cvsConfig     `koanf:"cvs"`
	Session sessionConfig `koanf:"session"`
	Runs    runsConfig    `koanf:"runs"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},

			OpenAPI: openAPIConfig{
				Enabled:    true,
				PublicHost: "",
				PublicPath: "",
			},
		},

		Storage: storageConfig{
			DataDir:  "./data",
			InMemory: false,
		},

		CVS: cvsConfig{
			Binary:           "cvs",
			DefaultRoot:      "",
			ProgressInterval: 500 * time.Millisecond,
			ProgressWidth:    50,
			BackupSuffix:     ".temp",
			CleanCopySuffix:  "-clean-copy",
			KillAfter:        10 * time.Second,
			Workspaces:       []string{},
		},

		Session: sessionConfig{
			Persist: false,
		},

		Runs: runsConfig{
			HistoryLimit: 500,
			LogLimit:     1 << 20,
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
