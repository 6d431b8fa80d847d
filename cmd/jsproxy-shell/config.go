package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/feather-lang/jsproxy/convert"
)

// Config is the shell's YAML configuration file.
type Config struct {
	Prompt        string   `yaml:"prompt"`
	LogLevel      string   `yaml:"log_level"`
	ContainerCopy *bool    `yaml:"container_copy"`
	MaxDepth      int      `yaml:"max_depth"`
	Prelude       []string `yaml:"prelude"`
}

func defaultConfig() Config {
	return Config{Prompt: "js> ", LogLevel: "warn"}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) convertOptions() []convert.Option {
	var opts []convert.Option
	if c.ContainerCopy != nil {
		opts = append(opts, convert.WithContainerCopy(*c.ContainerCopy))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, convert.WithMaxDepth(c.MaxDepth))
	}
	return opts
}

// newLogger builds a console logger on stderr at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.DisableStacktrace = true
	return cfg.Build()
}
