package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/enginecore/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `The config command prints the configuration corectl would run with:
the defaults, overlaid with --config and the log flags.

Example:
  corectl config
  corectl config --config core.yaml --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return writeConfig(cfg)
		},
	}
	rootCmd.AddCommand(cmd)
}

func writeConfig(cfg config.Config) error {
	if jsonOut {
		return printJSON(cfg)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
