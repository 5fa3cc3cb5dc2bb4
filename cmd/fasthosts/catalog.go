package main

//
// The catalog subcommand
//

import (
	"fmt"

	"github.com/fasthosts/fasthosts/internal/catalog"
	"github.com/spf13/cobra"
)

func catalogSubcommand() *cobra.Command {
	var recommendedOnly bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Lists the hostnames fasthosts knows about",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			hosts := catalog.Known()
			if recommendedOnly {
				hosts = catalog.Recommended()
			}
			for _, host := range hosts {
				if !recommendedOnly && catalog.IsRecommended(host) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (recommended)\n", host)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), host)
			}
		},
	}
	cmd.Flags().BoolVar(&recommendedOnly, "recommended", false, "Only list the recommended hostnames")
	return cmd
}
