package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/vical/pkg/calendar"
	"tableflip.dev/vical/pkg/printers"
	"tableflip.dev/vical/pkg/store"
)

func addList(topLevel *cobra.Command) {
	var on string
	var month bool
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks for a day or month.",
		Example: `
vical list
vical list --date 2026-09-14
vical list --month --date 2026-09-01
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

			d := calendar.Today()
			if on != "" {
				if d, err = calendar.ParseDate(on); err != nil {
					return err
				}
			}

			pp := &printers.PrettyPrint{ShowID: showIDs}
			if month {
				tasks := m.TasksInMonth(d.Year, d.Month)
				pp.TitleWithCount(fmt.Sprintf("%s %d", d.Month, d.Year), len(tasks))
				pp.Tasks(m, tasks...)
				return nil
			}
			tasks := m.TasksOn(d)
			pp.TitleWithCount(d.String(), len(tasks))
			pp.Tasks(m, tasks...)
			return nil
		},
	}

	cmd.Flags().StringVarP(&on, "date", "d", "", "Date to list (yyyy-mm-dd), defaults to today.")
	cmd.Flags().BoolVarP(&month, "month", "m", false, "List the whole month containing the date.")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show task ids.")

	topLevel.AddCommand(cmd)
}
