// Package config holds devtask's project configuration.
//
// Configuration loading order (later overrides earlier):
//  1. Defaults (DefaultConfig)
//  2. Project file: devtask.yaml, .devtask.yaml or devtask.toml
//  3. Project .env file (never overrides the real environment)
//  4. Environment variables: DEVTASK_*
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// Config is the complete devtask configuration. Relative paths are resolved
// against ProjectRoot.
type Config struct {
	ProjectRoot string `yaml:"-" toml:"-"`

	// VenvDir is the project virtual environment created by `dev`.
	VenvDir string `yaml:"venv_dir" toml:"venv_dir"`

	// ToolEnvDir holds the per-session tool environments.
	ToolEnvDir string `yaml:"tool_env_dir" toml:"tool_env_dir"`

	DefaultBranch  string   `yaml:"default_branch" toml:"default_branch"`
	DefaultPython  string   `yaml:"default_python" toml:"default_python"`
	PythonVersions []string `yaml:"python_versions" toml:"python_versions"`

	// Seeds are upgraded before anything else is installed.
	Seeds []string `yaml:"seeds" toml:"seeds"`

	// InstallTarget is the editable install requirement, e.g. ".[dev]".
	InstallTarget string `yaml:"install_target" toml:"install_target"`

	VenvTool       string   `yaml:"venv_tool" toml:"venv_tool"`
	BumpTool       string   `yaml:"bump_tool" toml:"bump_tool"`
	EditorCommands []string `yaml:"editor_commands" toml:"editor_commands"`
	SettingsFile   string   `yaml:"settings_file" toml:"settings_file"`

	// ErrorOnExternalRun makes Session.Run refuse programs that are not
	// installed in the session's tool environment.
	ErrorOnExternalRun bool `yaml:"error_on_external_run" toml:"error_on_external_run"`

	Log   LogConfig   `yaml:"log" toml:"log"`
	Audit AuditConfig `yaml:"audit" toml:"audit"`

	// Env is read from the process environment, never from config files.
	Env Env `yaml:"-" toml:"-"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text, json
}

// AuditConfig controls the session history file.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	File    string `yaml:"file" toml:"file"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate checks the fields every command relies on.
func (c *Config) Validate() error {
	if c.DefaultBranch == "" {
		return fmt.Errorf("config: default_branch must not be empty")
	}
	if c.VenvDir == "" {
		return fmt.Errorf("config: venv_dir must not be empty")
	}
	if c.DefaultPython == "" {
		return fmt.Errorf("config: default_python must not be empty")
	}
	if c.InstallTarget == "" {
		return fmt.Errorf("config: install_target must not be empty")
	}
	if !slices.Contains(validLevels, c.Log.Level) {
		return fmt.Errorf("config: unknown log level %q (valid: %v)", c.Log.Level, validLevels)
	}
	if !slices.Contains(validFormats, c.Log.Format) {
		return fmt.Errorf("config: unknown log format %q (valid: %v)", c.Log.Format, validFormats)
	}
	return nil
}

// Path resolves p against the project root.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// VenvPath is the absolute location of the project virtual environment.
func (c *Config) VenvPath() string {
	return c.Path(c.VenvDir)
}

// VenvPython is the interpreter inside the project virtual environment.
func (c *Config) VenvPython() string {
	return Interpreter(c.VenvPath())
}

// ToolEnvPath is the tool environment directory for a session.
func (c *Config) ToolEnvPath(session string) string {
	return filepath.Join(c.StateDir(), session)
}

// SettingsPath is the editor workspace settings file.
func (c *Config) SettingsPath() string {
	return c.Path(c.SettingsFile)
}

// AuditPath is the session history file.
func (c *Config) AuditPath() string {
	return c.Path(c.Audit.File)
}

// StateDir is where session tool environments live.
func (c *Config) StateDir() string {
	return c.Path(c.ToolEnvDir)
}

// IgnoreDir creates dir with a .gitignore that hides its whole content, so
// tool state never makes the working tree dirty. An existing .gitignore is
// left alone.
func IgnoreDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	p := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(p, []byte("*\n"), 0644)
}

// BinDir returns the executables directory of a virtual environment.
func BinDir(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts")
	}
	return filepath.Join(envDir, "bin")
}

// Executable returns the platform file name for a program.
func Executable(name string) string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return name + ".exe"
	}
	return name
}

// Interpreter returns the python executable of a virtual environment.
func Interpreter(envDir string) string {
	return filepath.Join(BinDir(envDir), Executable("python"))
}

// PythonCommand returns the launcher name for a python version, e.g. python3.10.
func PythonCommand(version string) string {
	return Executable("python" + version)
}
