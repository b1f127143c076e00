package codebase

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/pssparse/pss/parser"
)

// ConfigFile is the workspace configuration file looked up in the root.
const ConfigFile = "pss.yaml"

// Config is the contents of pss.yaml.
type Config struct {
	// Include holds glob patterns matched against file base names.
	Include []string `yaml:"include"`
	// Exclude holds directory names that are never entered.
	Exclude      []string      `yaml:"exclude"`
	MaxErrors    int           `yaml:"max_errors"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Include:      []string{"*.pss"},
		Exclude:      []string{"node_modules", "build"},
		PollInterval: time.Second,
	}
}

// LoadConfig reads pss.yaml from root. A missing file yields the defaults.
func LoadConfig(root string) (*Config, error) {
	f, err := os.Open(filepath.Join(root, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// ReadConfig decodes a configuration document. Unset fields keep their
// defaults and unknown keys are rejected.
func ReadConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", ConfigFile, err)
	}
	def := DefaultConfig()
	if len(cfg.Include) == 0 {
		cfg.Include = def.Include
	}
	if cfg.Exclude == nil {
		cfg.Exclude = def.Exclude
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = def.PollInterval
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxErrors < 0 {
		return fmt.Errorf("%s: max_errors must not be negative", ConfigFile)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("%s: poll_interval must not be negative", ConfigFile)
	}
	for _, pattern := range c.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%s: include pattern %q: %w", ConfigFile, pattern, err)
		}
	}
	return nil
}

// Matches reports whether the file at path is a workspace source file.
func (c *Config) Matches(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range c.Include {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// SkipDir reports whether the directory name is excluded. Hidden
// directories are always skipped.
func (c *Config) SkipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, ex := range c.Exclude {
		if ex == name {
			return true
		}
	}
	return false
}

// ParseOptions returns the parser options implied by the configuration.
func (c *Config) ParseOptions() []parser.Option {
	opts := []parser.Option{parser.WithPositions()}
	if c.MaxErrors > 0 {
		opts = append(opts, parser.WithMaxErrors(c.MaxErrors))
	}
	return opts
}
