package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/vical/pkg/printers"
	"tableflip.dev/vical/pkg/store"
)

func addCalendars(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "calendars",
		Aliases: []string{"cals"},
		Short:   "Show the subcalendar roster.",
		Example: `
vical calendars
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Open(nil)
			if err != nil {
				return err
			}
			m, err := p.Load()
			if err != nil {
				return err
			}
			pp := &printers.PrettyPrint{}
			pp.Subcalendars(m)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
