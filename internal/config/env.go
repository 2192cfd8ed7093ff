package config

import "strconv"

// Environment variable names.
const (
	EnvCI            = "CI"
	EnvNoColor       = "NO_COLOR"
	EnvDefaultBranch = "DEVTASK_DEFAULT_BRANCH"
	EnvPython        = "DEVTASK_PYTHON"
	EnvVenvDir       = "DEVTASK_VENV_DIR"
	EnvLogLevel      = "DEVTASK_LOG_LEVEL"
	EnvLogFormat     = "DEVTASK_LOG_FORMAT"
	EnvAudit         = "DEVTASK_AUDIT"
	EnvConfigFile    = "DEVTASK_CONFIG"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Env holds the process environment flags devtask reacts to.
type Env struct {
	// CI is true when the CI variable is set to any non-empty value.
	CI bool

	// NoColor is true when NO_COLOR is set.
	NoColor bool
}

// ReadEnv builds Env from a lookup function.
func ReadEnv(lookup LookupFunc) Env {
	ci, _ := lookup(EnvCI)
	_, noColor := lookup(EnvNoColor)
	return Env{
		CI:      ci != "",
		NoColor: noColor,
	}
}

// applyEnvOverrides copies DEVTASK_* variables onto cfg.
func applyEnvOverrides(cfg *Config, lookup LookupFunc) {
	if v, ok := lookup(EnvDefaultBranch); ok && v != "" {
		cfg.DefaultBranch = v
	}
	if v, ok := lookup(EnvPython); ok && v != "" {
		cfg.DefaultPython = v
	}
	if v, ok := lookup(EnvVenvDir); ok && v != "" {
		cfg.VenvDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.Log.Format = v
	}
	if v, ok := lookup(EnvAudit); ok {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Audit.Enabled = enabled
		}
	}
}
