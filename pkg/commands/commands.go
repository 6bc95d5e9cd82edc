// Package commands wires the cobra CLI. The bare invocation opens the
// interactive calendar; subcommands cover scripted, read-only access.
package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/vical/pkg/interp"
	"tableflip.dev/vical/pkg/store"
	"tableflip.dev/vical/pkg/tui"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vical",
		Short:        base.Wrap80("A vi-style calendar and task manager for the terminal."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Open(nil)
			if err != nil {
				return err
			}
			m, err := p.Load()
			if err != nil {
				return err
			}
			return tui.Run(interp.New(m, p))
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addList(topLevel)
	addCalendars(topLevel)
	addVersion(topLevel)
}
