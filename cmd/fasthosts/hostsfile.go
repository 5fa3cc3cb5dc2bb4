package main

//
// The render, apply and restore subcommands
//

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/apex/log"
	"github.com/fasthosts/fasthosts/internal/engine"
	"github.com/fasthosts/fasthosts/internal/hostsfile"
	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// parseSelection parses host=ip arguments.
func parseSelection(args []string) (*model.Selection, error) {
	sel := model.NewSelection()
	for _, arg := range args {
		host, value, found := strings.Cut(arg, "=")
		if !found || host == "" {
			return nil, errors.Errorf("invalid mapping %q: expected host=ip", arg)
		}
		ip, err := parseIPv4(value)
		if err != nil {
			return nil, err
		}
		sel.Set(host, ip)
	}
	return sel, nil
}

// confirm asks the user to confirm unless --yes was given.
func (opts *globalOptions) confirm(message string) (bool, error) {
	if opts.yes {
		return true, nil
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false, errors.Wrap(err, "asking for confirmation")
	}
	return ok, nil
}

// explainFailure turns a failed hosts file update into an error.
func explainFailure(e *engine.Engine, operation string) error {
	if err := hostsfile.CheckWritable(e.Hosts.Path); err != nil {
		return errors.Wrapf(err, "cannot %s %s", operation, e.Hosts.Path)
	}
	return errors.Errorf("cannot %s %s", operation, e.Hosts.Path)
}

// apply confirms and writes sel to the hosts file.
func (opts *globalOptions) apply(e *engine.Engine, sel *model.Selection) error {
	if sel.Len() <= 0 {
		return errors.New("nothing to apply")
	}
	if e.Hosts.Path == hostsfile.DefaultPath() {
		if err := hostsfile.CheckWritable(e.Hosts.Path); err != nil {
			return err
		}
	}
	ok, err := opts.confirm(fmt.Sprintf("Write %d entries to %s?", sel.Len(), e.Hosts.Path))
	if err != nil {
		return err
	}
	if !ok {
		log.Info("fasthosts: nothing changed")
		return nil
	}
	if !e.Apply(sel) {
		return explainFailure(e, "update")
	}
	log.Infof("fasthosts: backup saved to %s", e.Hosts.BackupPath())
	return nil
}

func renderSubcommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render [host=ip...]",
		Short: "Prints the hosts file block for the given mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelection(args)
			if err != nil {
				return err
			}
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), e.Render(sel))
			return nil
		},
	}
}

func applySubcommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply host=ip...",
		Short: "Writes the given mappings to the hosts file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelection(args)
			if err != nil {
				return err
			}
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			return opts.apply(e, sel)
		},
	}
}

func restoreSubcommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restores the hosts file from its backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			ok, err := opts.confirm(fmt.Sprintf("Restore %s from %s?", e.Hosts.Path, e.Hosts.BackupPath()))
			if err != nil {
				return err
			}
			if !ok {
				log.Info("fasthosts: nothing changed")
				return nil
			}
			if !e.Restore() {
				return explainFailure(e, "restore")
			}
			log.Infof("fasthosts: restored %s", e.Hosts.Path)
			return nil
		},
	}
}
