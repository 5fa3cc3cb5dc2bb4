package main

//
// The run subcommand
//

import (
	"fmt"

	"github.com/apex/log"
	"github.com/fasthosts/fasthosts/internal/engine"
	"github.com/fasthosts/fasthosts/internal/prober"
	"github.com/spf13/cobra"
)

func runSubcommand(opts *globalOptions) *cobra.Command {
	ho := &hostsOptions{}
	var apply, dryRun bool
	cmd := &cobra.Command{
		Use:   "run [hostname...]",
		Short: "Discovers, probes and selects the fastest address of each hostname",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			if db, err := opts.openHistory(); err != nil {
				log.Warnf("fasthosts: history disabled: %s", err.Error())
			} else {
				defer db.Close()
				e.History = db
			}

			bar := newProgressBar(-1, "probing")
			e.Prober.OnMeasurement = func(prober.Measurement) {
				bar.Add(1)
			}
			report := e.Run(cmd.Context(), ho.hosts(args))
			bar.Finish()
			printReport(cmd, report)

			switch {
			case dryRun:
				diff, _ := e.Preview(report.Selection)
				fmt.Fprint(cmd.OutOrStdout(), diff)
				return nil
			case apply:
				return opts.apply(e, report.Selection)
			default:
				return nil
			}
		},
	}
	ho.register(cmd)
	cmd.Flags().BoolVar(&apply, "apply", false, "Write the selection to the hosts file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the hosts file changes without applying them")
	cmd.MarkFlagsMutuallyExclusive("apply", "dry-run")
	return cmd
}

// printReport prints the selection and logs a summary.
func printReport(cmd *cobra.Command, report *engine.Report) {
	for _, entry := range report.Selection.Entries() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
			entry.Hostname, entry.IP, report.Latency(entry.Hostname))
	}
	log.WithFields(log.Fields{
		"type":       "table",
		"run":        report.ID,
		"hosts":      len(report.Hosts),
		"candidates": len(report.Candidates.Flatten()),
		"reachable":  report.Probes.Reachable(),
		"selected":   report.Selection.Len(),
		"runtime":    report.Runtime.String(),
	}).Info("Run summary")
}
