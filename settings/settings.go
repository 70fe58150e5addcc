// Package settings loads optional run defaults from a YAML file, so
// repeated invocations against the same project don't need the full flag
// set every time. Flags always win over file values.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultFileName is the settings file Discover looks for.
const DefaultFileName = ".dita-runner.yaml"

// Settings mirrors the CLI's configuration surface. The zero value means
// "not set"; the CLI only applies fields the file actually provides.
type Settings struct {
	DitaHome        string            `yaml:"ditaHome"`
	Format          string            `yaml:"format"`
	Output          string            `yaml:"output"`
	Temp            string            `yaml:"temp"`
	Filter          string            `yaml:"filter"`
	Params          map[string]string `yaml:"params"`
	Timeout         string            `yaml:"timeout"`
	Progress        string            `yaml:"progress"`
	VerboseWarnings bool              `yaml:"verboseWarnings"`
}

// TimeoutDuration parses the timeout field. Returns zero when unset.
func (s Settings) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
	}
	return d, nil
}

// Load reads and parses a settings file.
func Load(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return s, nil
}

// Discover loads DefaultFileName from dir if it exists. A missing file
// is not an error and yields zero settings.
func Discover(dir string) (Settings, error) {
	path := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, nil
	}
	return Load(path)
}
