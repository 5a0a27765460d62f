package domain

// Config mirrors ~/.gemforge/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Sandbox             SandboxSettings   `yaml:"sandbox"`
	Security            SecuritySettings  `yaml:"security"`
	Execution           ExecutionSettings `yaml:"execution"`
	Cache               CacheSettings     `yaml:"cache"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	AutoApprove    bool   `yaml:"auto_approve"`
	MaxRounds      int    `yaml:"max_rounds"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// ModelDefinition describes a generation endpoint declared in the config file.
type ModelDefinition struct {
	Name       string `yaml:"name"`
	Endpoint   string `yaml:"endpoint"`
	AuthEnvVar string `yaml:"auth_env_var"`
	ModelID    string `yaml:"model_id"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// SandboxSettings confine path-based actions.
type SandboxSettings struct {
	Root string `yaml:"root"`
}

// SecuritySettings defines execution-policy behavior.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// ExecutionSettings controls how execute_command actions run.
type ExecutionSettings struct {
	Shell                string `yaml:"shell"`
	TimeoutSeconds       int    `yaml:"timeout"`
	MaxOutputBytes       int    `yaml:"max_output_bytes"`
	ConfirmBeforeExecute bool   `yaml:"confirm_before_execute"`
}

// CacheSettings controls the generation response cache.
type CacheSettings struct {
	Enabled    bool `yaml:"enabled"`
	TTLMinutes int  `yaml:"ttl_minutes"`
}
