// Package projectconfig provides the ProjectConfig struct and loader for
// .tagx.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/spboyer/tagx/internal/validation"
)

// FileName is the configuration file looked up from the working directory.
const FileName = ".tagx.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultOutputFormat = "table"
	DefaultOutputSort   = "first-seen"
	DefaultServerPort   = 8420
	DefaultBatchWorkers = 4
)

// StopWordsConfig holds the default stop word list.
type StopWordsConfig struct {
	Path string `yaml:"path,omitempty" mapstructure:"path"`
	Trim bool   `yaml:"trim,omitempty" mapstructure:"trim"`
}

// ExtractConfig holds normalization settings.
type ExtractConfig struct {
	FoldAccents bool `yaml:"fold_accents,omitempty" mapstructure:"fold_accents"`
	MinLength   int  `yaml:"min_length,omitempty" mapstructure:"min_length"`
}

// OutputConfig holds display defaults.
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"`
	Sort   string `yaml:"sort,omitempty" mapstructure:"sort"`
	Top    int    `yaml:"top,omitempty" mapstructure:"top"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty" mapstructure:"port"`
}

// HistoryConfig points at the optional run log.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

// BatchConfig holds batch extraction settings.
type BatchConfig struct {
	Workers int `yaml:"workers,omitempty" mapstructure:"workers"`
}

// ProjectConfig is the top-level configuration loaded from .tagx.yaml.
type ProjectConfig struct {
	StopWords StopWordsConfig `yaml:"stop_words,omitempty" mapstructure:"stop_words"`
	Extract   ExtractConfig   `yaml:"extract,omitempty" mapstructure:"extract"`
	Output    OutputConfig    `yaml:"output,omitempty" mapstructure:"output"`
	Server    ServerConfig    `yaml:"server,omitempty" mapstructure:"server"`
	History   HistoryConfig   `yaml:"history,omitempty" mapstructure:"history"`
	Batch     BatchConfig     `yaml:"batch,omitempty" mapstructure:"batch"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `yaml:"-" mapstructure:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Output: OutputConfig{
			Format: DefaultOutputFormat,
			Sort:   DefaultOutputSort,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
		Batch: BatchConfig{
			Workers: DefaultBatchWorkers,
		},
	}
}

// Load finds .tagx.yaml by walking up from startDir (max 10 levels) and
// decodes it onto the defaults. If no config file is found, returns defaults
// with a nil error. Real I/O errors are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return parse(path, data)
}

// LoadFile reads the configuration at path. Unlike Load, a missing file is an error.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*ProjectConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	if errs := validation.ValidateConfig(doc); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config %q:\n  %s", path, strings.Join(errs, "\n  "))
	}

	cfg := New()
	if doc != nil {
		if err := mapstructure.Decode(doc, cfg); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", path, err)
		}
	}
	cfg.Source = path
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// resolvePaths makes relative file settings relative to the config file.
func (c *ProjectConfig) resolvePaths(baseDir string) {
	for _, p := range []*string{&c.StopWords.Path, &c.History.Path} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}

// findConfigFile walks up from dir looking for .tagx.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}
