package main

//
// The discover subcommand
//

import (
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/fasthosts/fasthosts/internal/catalog"
	"github.com/spf13/cobra"
)

// hostsOptions selects the hostnames to operate on.
type hostsOptions struct {
	all         bool
	recommended bool
}

func (ho *hostsOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ho.all, "all", false, "Use every known hostname")
	cmd.Flags().BoolVar(&ho.recommended, "recommended", false, "Use the recommended hostnames (default)")
	cmd.MarkFlagsMutuallyExclusive("all", "recommended")
}

// hosts returns args or, when args is empty, the hostnames selected by the flags.
func (ho *hostsOptions) hosts(args []string) []string {
	switch {
	case len(args) > 0:
		for _, host := range args {
			if !catalog.IsKnown(host) {
				log.Warnf("fasthosts: %s is not a known GitHub hostname", host)
			}
		}
		return args
	case ho.all:
		return catalog.Known()
	default:
		return catalog.Recommended()
	}
}

func discoverSubcommand(opts *globalOptions) *cobra.Command {
	ho := &hostsOptions{}
	cmd := &cobra.Command{
		Use:   "discover [hostname...]",
		Short: "Prints the candidate addresses of the given hostnames",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			candidates := e.Discover(cmd.Context(), ho.hosts(args))
			for _, host := range candidates.Hosts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", host, strings.Join(candidates.Candidates(host), " "))
			}
			return nil
		},
	}
	ho.register(cmd)
	return cmd
}
