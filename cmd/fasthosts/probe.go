package main

//
// The probe subcommand
//

import (
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/fasthosts/fasthosts/internal/prober"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// errInvalidIPv4 indicates that an argument is not an IPv4 address.
var errInvalidIPv4 = errors.New("invalid IPv4 address")

// parseIPv4 returns the canonical form of the IPv4 address in s.
func parseIPv4(s string) (string, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return "", errors.Wrapf(errInvalidIPv4, "%q", s)
	}
	return addr.String(), nil
}

// newProgressBar returns a progress bar on the standard error. A
// negative total yields a spinner.
func newProgressBar(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetWriter(os.Stderr),
	)
}

func probeSubcommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe ip...",
		Short: "Measures the latency of the given IPv4 addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ips := []string{}
			for _, arg := range args {
				ip, err := parseIPv4(arg)
				if err != nil {
					return err
				}
				ips = append(ips, ip)
			}
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			bar := newProgressBar(int64(len(ips)), "probing")
			e.Prober.OnMeasurement = func(prober.Measurement) {
				bar.Add(1)
			}
			result := e.Probe(cmd.Context(), ips)
			bar.Finish()
			for _, m := range prober.SortedAscending(result) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.IP, m.Latency)
			}
			for _, ip := range result.IPs() {
				if latency, _ := result.Get(ip); !latency.Reachable() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ip, model.Unreachable)
				}
			}
			return nil
		},
	}
}
