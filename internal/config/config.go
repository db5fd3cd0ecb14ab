// Package config loads and saves patchd settings from YAML. A local
// .patchd/config.yaml shadows the global ~/.patchd/config.yaml when
// reading; writes go to the global file unless the caller asks for the
// local scope.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jpl-au/patchd/internal/patch"
)

var (
	ErrNoConfigPath = errors.New("cannot determine config path")
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope selects which config file an operation targets.
type Scope int

const (
	// ScopeGlobal is ~/.patchd/config.yaml.
	ScopeGlobal Scope = iota
	// ScopeLocal is .patchd/config.yaml in the current repository.
	ScopeLocal
)

// Author identifies who mutations are attributed to.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Sync controls mirroring of documents to the files directory.
type Sync struct {
	Files *bool `yaml:"files,omitempty"`
}

// Limits bounds path, content, and batch sizes. Nil means the default
// applies; a set pointer is an explicit user choice, including zero.
type Limits struct {
	MaxPath       *int   `yaml:"max_path,omitempty"`
	MaxContent    *int64 `yaml:"max_content,omitempty"`
	MaxLineLength *int   `yaml:"max_line_length,omitempty"`
	MaxBatchEdits *int   `yaml:"max_batch_edits,omitempty"`
}

// Patch tunes the patch engine.
type Patch struct {
	MaxPasses *int `yaml:"max_passes,omitempty"`
}

const (
	DefaultMaxPath       = 1024
	DefaultMaxContent    = 100 * 1024 * 1024 // 100 MB
	DefaultMaxLineLength = 10 * 1024 * 1024  // 10 MB
	DefaultMaxBatchEdits = 256
)

// Bounds enforced by Validate.
const (
	MinMaxPath       = 1
	MaxMaxPath       = 65536 // 64 KB
	MinMaxContent    = 1
	MaxMaxContent    = 10 * 1024 * 1024 * 1024 // 10 GB
	MinMaxLineLength = 1
	MaxMaxLineLength = 1024 * 1024 * 1024 // 1 GB
	MinMaxBatchEdits = 1
	MaxMaxBatchEdits = 65536
	MinMaxPasses     = 1
	MaxMaxPasses     = 100 // deeper dependency chains than this indicate a caller bug
)

// Config is the full settings tree.
type Config struct {
	Author Author `yaml:"author,omitempty"`
	Sync   Sync   `yaml:"sync,omitempty"`
	Limits Limits `yaml:"limits,omitempty"`
	Patch  Patch  `yaml:"patch,omitempty"`

	path  string // file this config came from, reused by Save
	scope Scope
}

func boundErr(name string, v, min, max int64) error {
	if v < min || v > max {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrInvalidValue, name, min, max, v)
	}
	return nil
}

// Validate checks every configured value against its bounds. Unset
// values pass; defaults are always in range.
func (c *Config) Validate() error {
	if p := c.Limits.MaxPath; p != nil {
		if err := boundErr("max_path", int64(*p), MinMaxPath, MaxMaxPath); err != nil {
			return err
		}
	}
	if p := c.Limits.MaxContent; p != nil {
		if err := boundErr("max_content", *p, MinMaxContent, MaxMaxContent); err != nil {
			return err
		}
	}
	if p := c.Limits.MaxLineLength; p != nil {
		if err := boundErr("max_line_length", int64(*p), MinMaxLineLength, MaxMaxLineLength); err != nil {
			return err
		}
	}
	if p := c.Limits.MaxBatchEdits; p != nil {
		if err := boundErr("max_batch_edits", int64(*p), MinMaxBatchEdits, MaxMaxBatchEdits); err != nil {
			return err
		}
	}
	if p := c.Patch.MaxPasses; p != nil {
		if err := boundErr("max_passes", int64(*p), MinMaxPasses, MaxMaxPasses); err != nil {
			return err
		}
	}
	return nil
}

// SyncFiles reports whether mirroring to the files directory is on.
// Off by default.
func (c *Config) SyncFiles() bool {
	return c.Sync.Files != nil && *c.Sync.Files
}

// MaxPath returns the path length limit in bytes.
func (c *Config) MaxPath() int {
	if c.Limits.MaxPath == nil {
		return DefaultMaxPath
	}
	return *c.Limits.MaxPath
}

// MaxContent returns the document size limit in bytes.
func (c *Config) MaxContent() int64 {
	if c.Limits.MaxContent == nil {
		return DefaultMaxContent
	}
	return *c.Limits.MaxContent
}

// MaxLineLength returns the scanner buffer limit used by cat and grep.
// Minified JS, large JSON, and base64 blobs can exceed the default.
func (c *Config) MaxLineLength() int {
	if c.Limits.MaxLineLength == nil {
		return DefaultMaxLineLength
	}
	return *c.Limits.MaxLineLength
}

// MaxBatchEdits returns the edit count limit for one patch batch. The
// engine itself has no batch size limit; this caps callers.
func (c *Config) MaxBatchEdits() int {
	if c.Limits.MaxBatchEdits == nil {
		return DefaultMaxBatchEdits
	}
	return *c.Limits.MaxBatchEdits
}

// MaxPasses returns the pass bound for the patch engine. Batches where
// one edit's target text only exists after other edits have applied may
// need more than patch.DefaultMaxPasses.
func (c *Config) MaxPasses() int {
	if c.Patch.MaxPasses == nil {
		return patch.DefaultMaxPasses
	}
	return *c.Patch.MaxPasses
}

// LocalPath returns the repository config file path.
func LocalPath() string {
	return filepath.Join(".patchd", "config.yaml")
}

// GlobalPath returns the user config file path, or "" when the home
// directory cannot be determined.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".patchd", "config.yaml")
}

// Path is an alias for LocalPath kept for older callers.
func Path() string {
	return LocalPath()
}

// Load reads the local config when one exists, the global one otherwise.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads one scope's config file. A missing file yields an
// empty config rather than an error.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope reports which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the config back where it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the config to a specific scope's file.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
