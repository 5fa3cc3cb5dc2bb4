// Command fasthosts finds the fastest reachable addresses of the GitHub
// hostnames and writes them to the hosts file.
package main

//
// Main
//

import (
	"context"
	"os"
	"os/signal"

	"github.com/apex/log"
	"github.com/fasthosts/fasthosts/internal/config"
	"github.com/fasthosts/fasthosts/internal/database"
	"github.com/fasthosts/fasthosts/internal/engine"
	"github.com/fasthosts/fasthosts/internal/logx"
	"github.com/fasthosts/fasthosts/internal/metrics"
	"github.com/fasthosts/fasthosts/internal/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(fasthostsMain())
}

// fasthostsMain runs the command line in os.Args and returns the exit code.
func fasthostsMain() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	opts := &globalOptions{}
	root := newRootCommand(opts)
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		log.Errorf("fasthosts: %s", err.Error())
		return 1
	}
	return 0
}

// globalOptions contains the flags shared by every subcommand and the
// state derived from them.
type globalOptions struct {
	configPath  string
	emoji       bool
	hostsFile   string
	metricsFile string
	verbose     bool
	yes         bool

	config  *config.Config
	home    string
	metrics *metrics.Metrics
}

func newRootCommand(opts *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:               "fasthosts",
		Short:             "Pins the fastest reachable GitHub addresses in the hosts file",
		Version:           version.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: opts.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return opts.writeMetrics()
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path of the configuration file")
	flags.StringVar(&opts.hostsFile, "hosts-file", "", "Hosts file to manage instead of the configured one")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write prometheus metrics to this file on exit")
	flags.BoolVar(&opts.emoji, "emoji", false, "Use emojis in log messages")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation")

	root.AddCommand(catalogSubcommand())
	root.AddCommand(configSubcommand(opts))
	root.AddCommand(discoverSubcommand(opts))
	root.AddCommand(probeSubcommand(opts))
	root.AddCommand(runSubcommand(opts))
	root.AddCommand(renderSubcommand(opts))
	root.AddCommand(applySubcommand(opts))
	root.AddCommand(restoreSubcommand(opts))
	root.AddCommand(historySubcommand(opts))
	root.AddCommand(versionSubcommand())
	return root
}

// setup configures logging and loads the configuration.
func (opts *globalOptions) setup(cmd *cobra.Command, args []string) error {
	if err := opts.setupLogging(cmd, args); err != nil {
		return err
	}
	cfg, err := config.ReadConfig(opts.configFile())
	if err != nil {
		return err
	}
	if opts.hostsFile != "" {
		cfg.HostsFile = opts.hostsFile
	}
	opts.config = cfg
	log.Debugf("fasthosts: using config %s", cfg.Path())
	return nil
}

// setupLogging configures logging and finds the home directory.
func (opts *globalOptions) setupLogging(*cobra.Command, []string) error {
	handler := logx.NewHandlerWithDefaultSettings()
	handler.Emoji = opts.emoji
	level := log.InfoLevel
	if opts.verbose {
		level = log.DebugLevel
	}
	log.Log = &log.Logger{Level: level, Handler: handler}

	home, err := config.DefaultHome()
	if err != nil {
		return err
	}
	opts.home = home
	if opts.metricsFile != "" {
		opts.metrics = metrics.New()
	}
	return nil
}

// configFile returns the path of the configuration file.
func (opts *globalOptions) configFile() string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.ConfigPath(opts.home)
}

// newEngine creates the engine for the loaded configuration.
func (opts *globalOptions) newEngine() (*engine.Engine, error) {
	e, err := engine.New(opts.config, log.Log)
	if err != nil {
		return nil, err
	}
	e.Metrics = opts.metrics
	return e, nil
}

// historyPath returns the path of the history database.
func (opts *globalOptions) historyPath() string {
	if opts.config.HistoryDB != "" {
		return opts.config.HistoryDB
	}
	return config.HistoryPath(opts.home)
}

// openHistory opens the history database.
func (opts *globalOptions) openHistory() (*database.Database, error) {
	db, err := database.Open(opts.historyPath())
	if err != nil {
		return nil, errors.Wrap(err, "opening history")
	}
	return db, nil
}

func (opts *globalOptions) writeMetrics() error {
	if opts.metricsFile == "" {
		return nil
	}
	return opts.metrics.WriteTextfile(opts.metricsFile)
}
