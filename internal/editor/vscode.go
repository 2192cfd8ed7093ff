// Package editor writes editor workspace settings for the project
// virtual environment.
package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// InterpreterSetting is the VS Code key naming the python interpreter.
const InterpreterSetting = "python.defaultInterpreterPath"

// Configurator creates VS Code workspace settings once.
type Configurator struct {
	settingsFile string
}

// NewConfigurator creates a configurator for the given settings.json path.
func NewConfigurator(settingsFile string) *Configurator {
	return &Configurator{settingsFile: settingsFile}
}

// SettingsFile returns the path the configurator writes.
func (c *Configurator) SettingsFile() string {
	return c.settingsFile
}

// Configure points the editor at interpreter. An existing settings file is
// left untouched, whatever it contains. Reports whether the file was written.
func (c *Configurator) Configure(interpreter string) (bool, error) {
	_, err := os.Stat(c.settingsFile)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", c.settingsFile, err)
	}

	if err := os.MkdirAll(filepath.Dir(c.settingsFile), 0755); err != nil {
		return false, fmt.Errorf("create settings directory: %w", err)
	}

	f, err := os.Create(c.settingsFile)
	if err != nil {
		return false, fmt.Errorf("create %s: %w", c.settingsFile, err)
	}
	defer f.Close()

	settings := map[string]string{
		InterpreterSetting: interpreter,
	}

	// Map keys are encoded in sorted order.
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(settings); err != nil {
		return false, fmt.Errorf("write %s: %w", c.settingsFile, err)
	}

	return true, f.Close()
}
