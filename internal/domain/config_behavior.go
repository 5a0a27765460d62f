package domain

import (
	"fmt"
	"time"
)

// GetDefaultModel retrieves the default model definition from configuration.
// Returns an error if the default model is not found.
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}

	for _, model := range c.Models {
		if model.Name == c.Preferences.DefaultModel {
			return model, nil
		}
	}

	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name.
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration.
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// IsSecurityEnabled checks if the execution policy hook is enabled.
func (c *Config) IsSecurityEnabled() bool {
	return c.Security.Enabled
}

// ShouldConfirmBeforeExecution checks if user confirmation is required before
// running execute_command actions.
func (c *Config) ShouldConfirmBeforeExecution() bool {
	return c.Execution.ConfirmBeforeExecute
}

// GetExecutionShell returns the configured shell for command execution.
func (c *Config) GetExecutionShell() string {
	const defaultShell = "sh"

	if c.Execution.Shell == "" || c.Execution.Shell == "auto" {
		return defaultShell
	}
	return c.Execution.Shell
}

// GetCommandTimeout returns the bound on a single execute_command subprocess.
func (c *Config) GetCommandTimeout() time.Duration {
	if c.Execution.TimeoutSeconds <= 0 {
		return DefaultCommandTimeout
	}
	return time.Duration(c.Execution.TimeoutSeconds) * time.Second
}

// GetMaxOutputBytes returns the capture bound for subprocess output.
func (c *Config) GetMaxOutputBytes() int {
	if c.Execution.MaxOutputBytes <= 0 {
		return MaxCapturedOutputBytes
	}
	return c.Execution.MaxOutputBytes
}

// GetSandboxRoot returns the configured sandbox root, defaulting to the
// current directory.
func (c *Config) GetSandboxRoot() string {
	if c.Sandbox.Root == "" {
		return "."
	}
	return c.Sandbox.Root
}

// GetMaxRounds returns the feedback-loop round limit.
func (c *Config) GetMaxRounds() int {
	if c.Preferences.MaxRounds <= 0 {
		return DefaultMaxRounds
	}
	return c.Preferences.MaxRounds
}

// GetCacheTTL returns the generation cache entry lifetime.
func (c *Config) GetCacheTTL() time.Duration {
	if c.Cache.TTLMinutes <= 0 {
		return DefaultCacheTTL
	}
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}
