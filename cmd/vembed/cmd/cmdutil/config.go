// Package cmdutil holds the configuration plumbing shared by the vembed commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"verse-embed/internal/config"
)

var (
	// ConfigPath is the --config flag
	ConfigPath string
	// Verbose is the --verbose flag
	Verbose bool
)

// LoadConfig layers defaults, the config file and the environment. Command
// flags are applied by the caller, which then calls Finalize.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, err
	}
	if Verbose {
		cfg.Development = true
	}
	return cfg, nil
}

// Finalize fills provider defaults and validates cfg
func Finalize(cfg *config.Config) error {
	cfg.Normalize()
	return cfg.Validate()
}

// StringFlag copies a string flag into dst when it was set
func StringFlag(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

// IntFlag copies an int flag into dst when it was set
func IntFlag(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}
