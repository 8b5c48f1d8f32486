// Stats command prints catalogue-wide totals.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalogue-wide reading totals",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	st, err := sess.Engine().Stats()
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}

	if flagJSON {
		output, err := json.MarshalIndent(map[string]int{
			"comics": st.TotalComics,
			"pages":  st.TotalPages,
			"series": st.TotalSeries,
			"events": st.TotalEvents,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal stats: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Comics read: %d\n", st.TotalComics)
	fmt.Printf("Pages read:  %d\n", st.TotalPages)
	fmt.Printf("Series:      %d\n", st.TotalSeries)
	fmt.Printf("Events:      %d\n", st.TotalEvents)
	return nil
}
