// List command prints the catalogue in reading order.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcoldwell/shelved/pkg/types"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List comics, most recently read first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of results (0 = no limit)")
}

func runList(cmd *cobra.Command, args []string) error {
	comics, err := sess.Engine().Store().ListComics()
	if err != nil {
		return fmt.Errorf("list comics: %w", err)
	}
	if listLimit > 0 && len(comics) > listLimit {
		comics = comics[:listLimit]
	}

	if flagJSON {
		output, err := json.MarshalIndent(comics, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal comics: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	printComicTable(comics)
	return nil
}

// printComicTable prints comics in a human-readable table.
func printComicTable(comics []*types.Comic) {
	if len(comics) == 0 {
		fmt.Println("No comics recorded.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPAGES\tEVENT\tSTATUS\tDATE")
	for _, c := range comics {
		date := ""
		if c.DateRead != nil {
			date = c.DateRead.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			c.ID,
			comicDisplayName(sess.Engine(), c),
			c.TotalPages,
			c.EventName,
			c.ReadStatus,
			date,
		)
	}
	w.Flush()

	fmt.Printf("Total: %d comic(s)\n", len(comics))
}
