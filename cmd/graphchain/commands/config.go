package commands

import (
	"github.com/provchain/graphchain/src/config"
)

//CLIConfig contains configuration for the Run command
type CLIConfig struct {
	GraphChain config.Config `mapstructure:",squash"`

	// LogFile activates logging to per-level files in the data directory.
	LogFile bool `mapstructure:"log-file"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		GraphChain: *config.NewDefaultConfig(),
	}
}
