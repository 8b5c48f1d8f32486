// Series commands list series roll-ups and set their issue totals.
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
	seriesTotalName  string
	seriesTotalYear  int
	seriesTotalValue int
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "List series roll-ups",
	Args:  cobra.NoArgs,
	RunE:  runSeriesList,
}

var seriesSetTotalCmd = &cobra.Command{
	Use:   "set-total",
	Short: "Set a series' total issue count",
	Long: `Set-total records how many issues the series runs to. The total is
user-supplied; it is never computed from the comics in the catalogue.

Example:
  shelved series set-total --series "Saga" --year 2012 --total 72`,
	Args: cobra.NoArgs,
	RunE: runSeriesSetTotal,
}

func init() {
	seriesSetTotalCmd.Flags().StringVar(&seriesTotalName, "series", "", "series name (required)")
	seriesSetTotalCmd.Flags().IntVar(&seriesTotalYear, "year", 0, "year the series was first published")
	seriesSetTotalCmd.Flags().IntVar(&seriesTotalValue, "total", 0, "total number of issues (required)")
	_ = seriesSetTotalCmd.MarkFlagRequired("series")
	_ = seriesSetTotalCmd.MarkFlagRequired("total")

	seriesCmd.AddCommand(seriesSetTotalCmd)
}

func runSeriesList(cmd *cobra.Command, args []string) error {
	series, err := sess.Engine().Store().ListSeries()
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}

	if flagJSON {
		output, err := json.MarshalIndent(series, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal series: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(series) == 0 {
		fmt.Println("No series recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERIES\tBRAND\tREAD\tTOTAL\tPAGES")
	for _, sr := range series {
		total := ""
		if sr.TotalIssues > 0 {
			total = fmt.Sprintf("%d", sr.TotalIssues)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\n",
			sr.ID,
			seriesDisplayName(sess.Engine(), sr.SeriesName, sr.ShortSeriesName, sr.PrioritizeShortSeries, sr.YearFirstPublished),
			pickName(sr.BrandName, sr.ShortBrandName, sr.PrioritizeShortBrand),
			sr.IssuesRead,
			total,
			sr.PagesRead,
		)
	}
	w.Flush()

	fmt.Printf("Total: %d series\n", len(series))
	return nil
}

func runSeriesSetTotal(cmd *cobra.Command, args []string) error {
	key := types.SeriesKey{Name: seriesTotalName, Year: seriesTotalYear}
	if err := sess.SetSeriesTotalIssues(key, seriesTotalValue); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("no series %q (%d)", key.Name, key.Year)
		}
		return fmt.Errorf("set series total: %w", err)
	}

	fmt.Printf("Set %s (%d) total to %d issue(s)\n", seriesTotalName, seriesTotalYear, seriesTotalValue)
	return nil
}
