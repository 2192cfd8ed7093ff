package config

import (
	"os"
	"path/filepath"
)

// Default file and directory names.
const (
	DefaultVenvDir      = ".venv"
	DefaultToolEnvDir   = ".devtask"
	DefaultSettingsFile = ".vscode/settings.json"
	DefaultAuditFile    = ".devtask/history.jsonl"
)

// DefaultConfig returns the configuration used when no project file is present.
func DefaultConfig() *Config {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}

	return &Config{
		ProjectRoot:        root,
		VenvDir:            DefaultVenvDir,
		ToolEnvDir:         DefaultToolEnvDir,
		DefaultBranch:      "main",
		DefaultPython:      "3.10",
		PythonVersions:     []string{"3.8", "3.9", "3.10"},
		Seeds:              []string{"pip", "setuptools", "wheel"},
		InstallTarget:      ".[dev]",
		VenvTool:           "virtualenv",
		BumpTool:           "bump2version",
		EditorCommands:     []string{"code", "code-insiders"},
		SettingsFile:       filepath.FromSlash(DefaultSettingsFile),
		ErrorOnExternalRun: true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Audit: AuditConfig{
			Enabled: false,
			File:    filepath.FromSlash(DefaultAuditFile),
		},
	}
}
