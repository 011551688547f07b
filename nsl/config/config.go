// Package config handles nsl.toml tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/zboralski/ngen-nsl/nsl"
)

// FileName is the configuration file looked up by the tools.
const FileName = "nsl.toml"

// Config represents an nsl.toml file.
type Config struct {
	Decode Decode `toml:"decode"`
	Log    Log    `toml:"log"`
	Output Output `toml:"output"`

	// Path is the file the config was loaded from (set at load time).
	Path string `toml:"-"`
}

// Decode configures stream decoding.
type Decode struct {
	Mode     string `toml:"mode"`
	MaxSteps int    `toml:"max-steps"`
}

// Log configures commonlog output.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Output configures what nsldis writes next to its input.
type Output struct {
	Listing bool `toml:"listing"`
	Bytes   bool `toml:"bytes"`
	Indent  bool `toml:"indent"`
	CBOR    bool `toml:"cbor"`
	DOT     bool `toml:"dot"`
}

// Default returns the configuration used when no nsl.toml exists.
func Default() *Config {
	return &Config{
		Decode: Decode{Mode: "lenient"},
		Output: Output{Listing: true, Bytes: true, Indent: true},
	}
}

// ParseMode converts a mode name to an nsl.Mode.
func ParseMode(name string) (nsl.Mode, error) {
	switch name {
	case "", "lenient":
		return nsl.Lenient, nil
	case "strict":
		return nsl.Strict, nil
	case "besteffort":
		return nsl.BestEffort, nil
	}
	return 0, fmt.Errorf("unknown mode %q (use lenient, strict or besteffort)", name)
}

// Options returns the decode options described by c.
func (c *Config) Options() (nsl.Options, error) {
	mode, err := ParseMode(c.Decode.Mode)
	if err != nil {
		return nsl.Options{}, err
	}
	if c.Decode.MaxSteps < 0 {
		return nsl.Options{}, fmt.Errorf("max-steps must not be negative, got %d", c.Decode.MaxSteps)
	}
	return nsl.Options{Mode: mode, MaxSteps: c.Decode.MaxSteps}, nil
}

// LoadFile parses the given config file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if _, err := c.Options(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Load parses nsl.toml from the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// FindAndLoad walks up from startDir to find an nsl.toml file and loads it.
// Returns Default() if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
