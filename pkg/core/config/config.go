// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     config
// Description: TOML/YAML configuration with defaults and env lookup
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	rhllog "github.com/msto63/rhl/foundation/core/log"
)

// EnvVar names the environment variable that points at a config file
const EnvVar = "RHL_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general" yaml:"general"`
	Lexer       LexerConfig       `toml:"lexer" yaml:"lexer"`
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
	REPL        REPLConfig        `toml:"repl" yaml:"repl"`
	LSP         LSPConfig         `toml:"lsp" yaml:"lsp"`
	Watch       WatchConfig       `toml:"watch" yaml:"watch"`

	// Path of the file the configuration was read from, empty for defaults
	Source string `toml:"-" yaml:"-"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// LexerConfig controls tokenization
type LexerConfig struct {
	// WordBoundary requires keywords and booleans to end at a non-identifier
	// character. false restores greedy prefix matching.
	WordBoundary   bool `toml:"word_boundary" yaml:"word_boundary"`
	TokenCacheSize int  `toml:"token_cache_size" yaml:"token_cache_size"`
}

// InterpreterConfig controls script execution
type InterpreterConfig struct {
	MaxSteps int `toml:"max_steps" yaml:"max_steps"`

	// EchoAssignments is nil unless the key is set; see Echo
	EchoAssignments *bool `toml:"echo_assignments" yaml:"echo_assignments"`
}

// Echo reports whether assignments are echoed. Without an explicit
// echo_assignments key only interactive sessions echo.
func (c InterpreterConfig) Echo(interactive bool) bool {
	if c.EchoAssignments == nil {
		return interactive
	}
	return *c.EchoAssignments
}

// REPLConfig controls the interactive session
type REPLConfig struct {
	Prompt             string `toml:"prompt" yaml:"prompt"`
	ContinuationPrompt string `toml:"continuation_prompt" yaml:"continuation_prompt"`
	Recover            bool   `toml:"recover" yaml:"recover"`
	TUI                bool   `toml:"tui" yaml:"tui"`
	HistoryFile        string `toml:"history_file" yaml:"history_file"`
}

// LSPConfig controls the language server
type LSPConfig struct {
	MaxSteps   int `toml:"max_steps" yaml:"max_steps"`
	MaxTextLen int `toml:"max_text_len" yaml:"max_text_len"`
}

// WatchConfig controls `run --watch`
type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %v", node.Tag)
	}
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:  "warn",
			LogFormat: "text",
		},
		Lexer: LexerConfig{
			WordBoundary:   true,
			TokenCacheSize: 100,
		},
		REPL: REPLConfig{
			Prompt:             "> ",
			ContinuationPrompt: ". ",
			Recover:            true,
		},
		LSP: LSPConfig{
			MaxSteps:   100000,
			MaxTextLen: 1 << 20,
		},
		Watch: WatchConfig{
			Debounce: Duration{300 * time.Millisecond},
		},
	}
}

// Load reads a TOML or YAML file (chosen by extension) on top of the
// defaults, so keys missing from the file keep their default value.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rhlerr.Wrap(err, "config file not found: "+path).WithCode(rhlerr.CodeNotFound)
		}
		return nil, rhlerr.Wrap(err, "reading config").WithCode(rhlerr.CodeIO)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml", "":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, rhlerr.New("unsupported config format: " + filepath.Ext(path)).
			WithCode(rhlerr.CodeConfigInvalid)
	}
	if err != nil {
		return nil, rhlerr.Wrap(err, "failed to parse config "+path).WithCode(rhlerr.CodeConfigInvalid)
	}

	cfg.Source = path
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths lists the locations searched when no path is given
func DefaultPaths() []string {
	paths := []string{"./rhl.toml", "./rhl.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rhl", "rhl.toml"))
	}
	return paths
}

// Resolve loads the configuration from path, or from $RHL_CONFIG, or from
// the first existing default path. Without any file the defaults are used.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if _, err := rhllog.ParseLevel(c.General.LogLevel); err != nil {
		return rhlerr.Wrap(err, "general.log_level").WithCode(rhlerr.CodeConfigInvalid)
	}
	if _, err := rhllog.ParseFormat(c.General.LogFormat); err != nil {
		return rhlerr.Wrap(err, "general.log_format").WithCode(rhlerr.CodeConfigInvalid)
	}
	if c.Lexer.TokenCacheSize < 0 {
		return invalid("lexer.token_cache_size", c.Lexer.TokenCacheSize)
	}
	if c.Interpreter.MaxSteps < 0 {
		return invalid("interpreter.max_steps", c.Interpreter.MaxSteps)
	}
	if c.LSP.MaxSteps < 0 {
		return invalid("lsp.max_steps", c.LSP.MaxSteps)
	}
	if c.LSP.MaxTextLen < 0 {
		return invalid("lsp.max_text_len", c.LSP.MaxTextLen)
	}
	if c.Watch.Debounce.Duration <= 0 {
		return invalid("watch.debounce", c.Watch.Debounce)
	}
	return nil
}

func invalid(key string, value interface{}) error {
	return rhlerr.Newf("%s: invalid value %v", key, value).
		WithCode(rhlerr.CodeConfigInvalid).
		WithDetail("key", key)
}

// expandEnvVars expands ${VAR} references in string values
func (c *Config) expandEnvVars() {
	c.REPL.Prompt = os.ExpandEnv(c.REPL.Prompt)
	c.REPL.ContinuationPrompt = os.ExpandEnv(c.REPL.ContinuationPrompt)
	c.REPL.HistoryFile = os.ExpandEnv(c.REPL.HistoryFile)
}
