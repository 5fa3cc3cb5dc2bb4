package main

import (
	"fmt"

	"github.com/apex/log"
	"github.com/fasthosts/fasthosts/internal/config"
	"github.com/spf13/cobra"
)

func configSubcommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manages the configuration file",
		// the configuration file may be missing or broken here
		PersistentPreRunE: opts.setupLogging,
	}
	cmd.AddCommand(configInitSubcommand(opts))
	return cmd
}

func configInitSubcommand(opts *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Writes the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Init(opts.configFile(), force)
			if err != nil {
				return err
			}
			log.Infof("fasthosts: wrote the default configuration")
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	return cmd
}
