package config

// CLIConfig is the configuration for tokauth-cli.
type CLIConfig struct {
	Server string `yaml:"server" json:"server"`
	Output string `yaml:"output" json:"output"` // table, json, yaml

	// Token is the session token saved by "login --save".
	Token string `yaml:"token,omitempty" json:"token,omitempty"`
	// Username is the user the saved token was issued to.
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
}

// Defaults.
const (
	DefaultServer = "localhost:5080"
	DefaultOutput = "table"
)

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: DefaultServer,
		Output: DefaultOutput,
	}
}
