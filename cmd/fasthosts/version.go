package main

import (
	"fmt"

	"github.com/fasthosts/fasthosts/internal/version"
	"github.com/spf13/cobra"
)

func versionSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Shows the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	}
}
