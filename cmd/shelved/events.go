// Events commands list event roll-ups and set their issue totals.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcoldwell/shelved/pkg/types"
)

var (
	eventTotalName  string
	eventTotalValue int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List event roll-ups",
	Args:  cobra.NoArgs,
	RunE:  runEventsList,
}

var eventsSetTotalCmd = &cobra.Command{
	Use:   "set-total",
	Short: "Set an event's total issue count",
	Long: `Set-total records how many issues make up the event's reading list.
The total is user-supplied; it is never computed from the catalogue.

Example:
  shelved events set-total --event "Secret Wars" --total 9`,
	Args: cobra.NoArgs,
	RunE: runEventsSetTotal,
}

func init() {
	eventsSetTotalCmd.Flags().StringVar(&eventTotalName, "event", "", "event name (required)")
	eventsSetTotalCmd.Flags().IntVar(&eventTotalValue, "total", 0, "total number of issues (required)")
	_ = eventsSetTotalCmd.MarkFlagRequired("event")
	_ = eventsSetTotalCmd.MarkFlagRequired("total")

	eventsCmd.AddCommand(eventsSetTotalCmd)
}

func runEventsList(cmd *cobra.Command, args []string) error {
	events, err := sess.Engine().Store().ListEvents()
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	if flagJSON {
		output, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal events: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(events) == 0 {
		fmt.Println("No events recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENT\tBRAND\tREAD\tTOTAL\tPAGES")
	for _, ev := range events {
		total := ""
		if ev.TotalIssues > 0 {
			total = fmt.Sprintf("%d", ev.TotalIssues)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\n",
			ev.ID,
			ev.EventName,
			pickName(ev.BrandName, ev.ShortBrandName, ev.PrioritizeShortBrand),
			ev.IssuesRead,
			total,
			ev.PagesRead,
		)
	}
	w.Flush()

	fmt.Printf("Total: %d event(s)\n", len(events))
	return nil
}

func runEventsSetTotal(cmd *cobra.Command, args []string) error {
	if err := sess.SetEventTotalIssues(eventTotalName, eventTotalValue); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("no event %q", eventTotalName)
		}
		return fmt.Errorf("set event total: %w", err)
	}

	fmt.Printf("Set %s total to %d issue(s)\n", eventTotalName, eventTotalValue)
	return nil
}
