// Package config loads the toknames.toml manifest.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"toknames/internal/emit"
	"toknames/internal/log"
	"toknames/internal/tokentab"
)

// FileName is the manifest looked up by Find.
const FileName = "toknames.toml"

// Manifest is a decoded and validated toknames.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Generate GenerateConfig `toml:"generate"`
	Log      log.Config     `toml:"log"`
	Tables   []TableConfig  `toml:"table"`
}

type GenerateConfig struct {
	Jobs    int `toml:"jobs"`
	MaxCode int `toml:"max_code"`
}

type TableConfig struct {
	Input   string `toml:"input"`
	Output  string `toml:"output"`
	Format  string `toml:"format"`
	Name    string `toml:"name"`
	Package string `toml:"package"`
	MaxCode int    `toml:"max_code"`
}

// Find walks up from startDir looking for toknames.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest manifest. ok is false when none exists.
func Discover(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Load decodes and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// Validate checks the constraints the decoder cannot express.
func (c *Config) Validate() error {
	if c.Generate.Jobs < 0 {
		return fmt.Errorf("[generate].jobs must not be negative")
	}
	if c.Generate.MaxCode < 0 {
		return fmt.Errorf("[generate].max_code must be positive")
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("missing [[table]]")
	}
	seen := make(map[string]int, len(c.Tables))
	for i, t := range c.Tables {
		if strings.TrimSpace(t.Input) == "" {
			return fmt.Errorf("[[table]] #%d: missing input", i+1)
		}
		if strings.TrimSpace(t.Output) == "" {
			return fmt.Errorf("[[table]] #%d: missing output", i+1)
		}
		if _, err := emit.ParseFormat(t.Format); err != nil {
			return fmt.Errorf("[[table]] #%d: %w", i+1, err)
		}
		if t.MaxCode < 0 {
			return fmt.Errorf("[[table]] #%d: max_code must be positive", i+1)
		}
		if prev, dup := seen[t.Output]; dup {
			return fmt.Errorf("[[table]] #%d: output %q already written by #%d", i+1, t.Output, prev)
		}
		seen[t.Output] = i + 1
	}
	return nil
}

// Resolve makes p absolute relative to the manifest directory. "-" is kept.
func (m *Manifest) Resolve(p string) string {
	if p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

// EffectiveMaxCode picks the table override, then the [generate] value, then
// the builder default.
func (c *Config) EffectiveMaxCode(t TableConfig) int {
	switch {
	case t.MaxCode > 0:
		return t.MaxCode
	case c.Generate.MaxCode > 0:
		return c.Generate.MaxCode
	}
	return tokentab.DefaultMaxCode
}

// Template is the manifest written by `toknames init`.
const Template = `# toknames configuration

[generate]
# jobs = 4
# max_code = 1048576

[log]
level = "warn"
format = "text"

[[table]]
input = "parser.h"
output = "toknames.c"
format = "c"
name = "toknames"
`
