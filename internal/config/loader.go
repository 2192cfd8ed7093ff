package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DotEnvFile is read from the project root when present.
const DotEnvFile = ".env"

// ProjectConfigFiles are searched in order in the project root.
var ProjectConfigFiles = []string{
	"devtask.yaml",
	".devtask.yaml",
	"devtask.toml",
}

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	configFile  string
	lookup      LookupFunc
}

// NewLoader creates a loader bound to the real process environment.
func NewLoader() *Loader {
	return &Loader{lookup: os.LookupEnv}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithConfigFile loads an explicit config file instead of searching.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvLookup replaces os.LookupEnv, for tests.
func (l *Loader) WithEnvLookup(lookup LookupFunc) *Loader {
	l.lookup = lookup
	return l
}

// Load builds the configuration with full precedence order.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.projectRoot != "" {
		root, err := filepath.Abs(l.projectRoot)
		if err != nil {
			return nil, fmt.Errorf("resolve project root: %w", err)
		}
		cfg.ProjectRoot = root
	}

	path := l.configFile
	if path == "" {
		if v, ok := l.lookup(EnvConfigFile); ok && v != "" {
			path = v
		}
	}
	if path == "" {
		path = findProjectFile(cfg.ProjectRoot)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	lookup, err := l.withDotEnv(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg, lookup)
	cfg.Env = ReadEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withDotEnv layers the project .env file under the real environment.
func (l *Loader) withDotEnv(root string) (LookupFunc, error) {
	vars, err := godotenv.Read(filepath.Join(root, DotEnvFile))
	if errors.Is(err, fs.ErrNotExist) {
		return l.lookup, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", DotEnvFile, err)
	}

	base := l.lookup
	return func(key string) (string, bool) {
		if v, ok := base(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

func findProjectFile(root string) string {
	for _, name := range ProjectConfigFiles {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// decodeFile decodes a yaml or toml file on top of cfg.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}
	return nil
}
