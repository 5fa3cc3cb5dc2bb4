package main

//
// The history subcommand
//

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func historySubcommand(opts *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lists the previous runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := opts.openHistory()
			if err != nil {
				return err
			}
			defer db.Close()
			runs, err := db.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\thosts=%d candidates=%d reachable=%d\n",
					run.UUID, run.StartedAt.Local().Format(time.RFC3339),
					run.Hosts, run.Candidates, run.Reachable)
				selections, err := db.ListSelections(run.ID)
				if err != nil {
					return err
				}
				for _, entry := range selections {
					fmt.Fprintf(cmd.OutOrStdout(), "\t%s\t%s\t%.1f ms\n", entry.Hostname, entry.IP, entry.LatencyMs)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to list (0 means all)")
	return cmd
}
