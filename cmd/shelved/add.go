// Add command records a newly read comic.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcoldwell/shelved/pkg/types"
)

var (
	addBrand            string
	addShortBrand       string
	addPreferShortBrand bool

	addSeries            string
	addShortSeries       string
	addPreferShortSeries bool

	addTitle            string
	addShortTitle       string
	addPreferShortTitle bool

	addYear     int
	addIssue    int
	addPages    int
	addEvent    string
	addPurpose  string
	addDateRead string
	addLink     string
	addStatus   string

	addContinue bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a read comic",
	Long: `Add records a comic in the catalogue and rolls it up into its series
and, when an event is named, its event.

With --continue, the issue number, page count, event, and purpose are
pre-filled from the most recent comic in the same series (issue number
incremented by one); explicit flags still win.

Example:
  shelved add --series "Saga" --year 2012 --issue 1 --pages 44
  shelved add --series "Saga" --year 2012 --continue
  shelved add --series "Secret Wars" --year 2015 --issue 1 --event "Secret Wars"`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addBrand, "brand", "", "publisher or franchise name")
	addCmd.Flags().StringVar(&addShortBrand, "short-brand", "", "abbreviated brand name")
	addCmd.Flags().BoolVar(&addPreferShortBrand, "prefer-short-brand", false, "display the short brand name")
	addCmd.Flags().StringVar(&addSeries, "series", "", "series name (required)")
	addCmd.Flags().StringVar(&addShortSeries, "short-series", "", "abbreviated series name")
	addCmd.Flags().BoolVar(&addPreferShortSeries, "prefer-short-series", false, "display the short series name")
	addCmd.Flags().StringVar(&addTitle, "title", "", "comic's own title, if it has one")
	addCmd.Flags().StringVar(&addShortTitle, "short-title", "", "abbreviated comic title")
	addCmd.Flags().BoolVar(&addPreferShortTitle, "prefer-short-title", false, "display the short comic title")
	addCmd.Flags().IntVar(&addYear, "year", 0, "year the series was first published")
	addCmd.Flags().IntVar(&addIssue, "issue", 0, "issue number")
	addCmd.Flags().IntVar(&addPages, "pages", 0, "page count")
	addCmd.Flags().StringVar(&addEvent, "event", "", "event or reading list this comic belongs to")
	addCmd.Flags().StringVar(&addPurpose, "purpose", "", "reason for reading")
	addCmd.Flags().StringVar(&addDateRead, "date-read", "", "date read (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&addLink, "link", "", "reference URL")
	addCmd.Flags().StringVar(&addStatus, "status", "", `read status ("Read", "Skipped", "Not Read"; default "Read")`)
	addCmd.Flags().BoolVar(&addContinue, "continue", false, "pre-fill from the series' most recent comic")
	_ = addCmd.MarkFlagRequired("series")
}

func runAdd(cmd *cobra.Command, args []string) error {
	draft := types.Comic{
		BrandName:             addBrand,
		ShortBrandName:        addShortBrand,
		PrioritizeShortBrand:  addPreferShortBrand,
		SeriesName:            addSeries,
		ShortSeriesName:       addShortSeries,
		PrioritizeShortSeries: addPreferShortSeries,
		ComicName:             addTitle,
		ShortComicName:        addShortTitle,
		PrioritizeShortComic:  addPreferShortTitle,
		YearFirstPublished:    addYear,
		IssueNumber:           addIssue,
		TotalPages:            addPages,
		EventName:             addEvent,
		Purpose:               addPurpose,
		ExternalLink:          addLink,
		ReadStatus:            addStatus,
	}
	if draft.ReadStatus == "" {
		draft.ReadStatus = types.StatusRead
	}

	if addContinue {
		if err := prefillFromSeries(cmd, &draft); err != nil {
			return err
		}
	}

	if addDateRead == "" {
		now := time.Now()
		draft.DateRead = &now
	} else {
		d, err := time.Parse("2006-01-02", addDateRead)
		if err != nil {
			return fmt.Errorf("invalid --date-read %q: %w", addDateRead, err)
		}
		draft.DateRead = &d
	}

	c, err := sess.AddComic(draft)
	if err != nil {
		return fmt.Errorf("add comic: %w", err)
	}

	if flagJSON {
		output, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal comic: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}
	fmt.Printf("Added %s (id %d)\n", comicDisplayName(sess.Engine(), c), c.ID)
	return nil
}

// prefillFromSeries copies the series' recent-comic snapshot into fields the
// user did not set explicitly. The issue number continues from the most
// recent one.
func prefillFromSeries(cmd *cobra.Command, draft *types.Comic) error {
	sr, err := sess.Engine().Store().GetSeries(types.SeriesKey{Name: draft.SeriesName, Year: draft.YearFirstPublished})
	if errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("no series %q (%d) to continue from", draft.SeriesName, draft.YearFirstPublished)
	}
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("issue") {
		draft.IssueNumber = sr.RecentIssueNumber + 1
	}
	if !cmd.Flags().Changed("pages") {
		draft.TotalPages = sr.RecentTotalPages
	}
	if !cmd.Flags().Changed("event") {
		draft.EventName = sr.RecentEventName
	}
	if !cmd.Flags().Changed("purpose") {
		draft.Purpose = sr.RecentPurpose
	}
	if !cmd.Flags().Changed("brand") {
		draft.BrandName = sr.BrandName
		draft.ShortBrandName = sr.ShortBrandName
		draft.PrioritizeShortBrand = sr.PrioritizeShortBrand
	}
	if !cmd.Flags().Changed("short-series") {
		draft.ShortSeriesName = sr.ShortSeriesName
		draft.PrioritizeShortSeries = sr.PrioritizeShortSeries
	}
	return nil
}
