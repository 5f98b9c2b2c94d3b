// Package config loads the optional deskbridge YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBase is the CLI executable used when a mode has no entry of its own.
const DefaultBase = "rediacc"

// Default values for probes.
const (
	DefaultVersionFlag = "--version"
	DefaultOSRelease   = "/etc/os-release"
)

var (
	// DefaultInterpreters are tried in order when no candidates are configured.
	DefaultInterpreters = []string{"python3", "python"}

	// DefaultModes maps run_cli mode tokens to executables.
	DefaultModes = map[string]string{
		"sync":   "rediacc-sync",
		"term":   "rediacc-term",
		"plugin": "rediacc-plugin",
	}

	// DefaultDistroCommand prints a one-line distribution description.
	DefaultDistroCommand = []string{"lsb_release", "-ds"}
)

// Config holds the parsed configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int               `yaml:"version"`
	RawTimeout   string            `yaml:"timeout"`    // e.g. "5m", "30s"; empty means none
	RawMaxOutput int               `yaml:"max_output"` // bytes per stream
	Interpreter  InterpreterConfig `yaml:"interpreter"`
	CLI          CLIConfig         `yaml:"cli"`
	Probe        ProbeConfig       `yaml:"probe"`
}

// InterpreterConfig controls which interpreter binaries are tried.
type InterpreterConfig struct {
	Candidates []string `yaml:"candidates"` // default: [python3, python]
}

// CLIConfig controls the run_cli tool-name table.
type CLIConfig struct {
	Base       string            `yaml:"base"`       // fallback executable
	Candidates []string          `yaml:"candidates"` // names probed by check_cli
	Modes      map[string]string `yaml:"modes"`      // mode token -> executable
}

// ProbeConfig controls the environment probes.
type ProbeConfig struct {
	VersionFlag   string   `yaml:"version_flag"`
	DistroCommand []string `yaml:"distro_command"`
	OSRelease     string   `yaml:"os_release"`
}

// Timeout returns the configured timeout, or 0 for none.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// MaxOutputBytes returns the configured cap per stream, or 0 for unlimited.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return 0
}

// Interpreters returns the interpreter candidates, falling back to defaults.
func (c *Config) Interpreters() []string {
	if len(c.Interpreter.Candidates) > 0 {
		return c.Interpreter.Candidates
	}
	return DefaultInterpreters
}

// Base returns the fallback CLI executable.
func (c *Config) Base() string {
	if c.CLI.Base != "" {
		return c.CLI.Base
	}
	return DefaultBase
}

// CLICandidates returns the names probed for CLI presence. Without
// configuration that is just the base executable.
func (c *Config) CLICandidates() []string {
	if len(c.CLI.Candidates) > 0 {
		return c.CLI.Candidates
	}
	return []string{c.Base()}
}

// Modes returns the mode table, falling back to defaults.
func (c *Config) Modes() map[string]string {
	if len(c.CLI.Modes) > 0 {
		return c.CLI.Modes
	}
	return DefaultModes
}

// VersionFlag returns the argument passed by presence and version probes.
func (c *Config) VersionFlag() string {
	if c.Probe.VersionFlag != "" {
		return c.Probe.VersionFlag
	}
	return DefaultVersionFlag
}

// DistroCommand returns the distribution descriptor command.
func (c *Config) DistroCommand() []string {
	if len(c.Probe.DistroCommand) > 0 {
		return c.Probe.DistroCommand
	}
	return DefaultDistroCommand
}

// OSRelease returns the fallback distribution descriptor file.
func (c *Config) OSRelease() string {
	if c.Probe.OSRelease != "" {
		return c.Probe.OSRelease
	}
	return DefaultOSRelease
}

// DefaultPath returns the per-user config location,
// e.g. ~/.config/deskbridge/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "deskbridge", "config.yaml"), nil
}

// Load reads the config file at path. An empty path means DefaultPath.
// If the file does not exist, a default Config is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
