// Package config loads settings for the calc command from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
)

// EnvVar names the environment variable holding the default config file.
const EnvVar = "CALC_CONFIG"

// Format is a config file format.
type Format int

const (
	// FormatAuto selects a format by file extension.
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Config holds shell settings.
type Config struct {
	// Prompt is printed before each line the shell reads.
	Prompt string `toml:"prompt" yaml:"prompt"`
	// Format is the fmt verb for results.
	Format string `toml:"format" yaml:"format"`
	// Color enables coloured diagnostics.
	Color bool `toml:"color" yaml:"color"`
	// Vars are variables defined before any input. Values are numbers or
	// expressions in strings.
	Vars map[string]any `toml:"vars" yaml:"vars"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Prompt: "> ",
		Format: "%g",
		Color:  true,
	}
}

// Load reads a config file. If path is empty, the file named by $CALC_CONFIG
// is used, and if that is also empty, Load returns the defaults. Settings
// missing from the file keep their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("couldn't read config: %w", err)
	}
	cfg, err := Decode(b, detectFormat(path))
	if err != nil {
		return Config{}, fmt.Errorf("couldn't load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses config file contents over the defaults. FormatAuto is treated
// as TOML.
func Decode(b []byte, format Format) (Config, error) {
	cfg := Default()
	switch format {
	case FormatAuto, FormatTOML:
		if _, err := toml.Decode(string(b), &cfg); err != nil {
			return Config{}, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unknown config format %v", format)
	}
	return cfg, nil
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// ErrVarType is wrapped by errors for variables that are neither numbers nor
// strings.
var ErrVarType = errors.New("variable must be a number or an expression")

// Env evaluates the preset variables into a new environment. Variables are
// defined in name order, so an expression may refer to names that sort
// before its own.
func (c Config) Env() (calc.Env, error) {
	names := make([]string, 0, len(c.Vars))
	for k := range c.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	env := make(calc.Env, len(names))
	for _, k := range names {
		var v float64
		switch x := c.Vars[k].(type) {
		case float64:
			v = x
		case int64:
			v = float64(x)
		case int:
			v = float64(x)
		case uint64:
			v = float64(x)
		case string:
			r, err := calc.EvalString(x, env)
			if err != nil {
				return nil, fmt.Errorf("setting %s: %w", k, err)
			}
			v = r
		default:
			return nil, fmt.Errorf("setting %s: %w, not %T", k, ErrVarType, x)
		}
		env[k] = v
	}
	return env, nil
}
