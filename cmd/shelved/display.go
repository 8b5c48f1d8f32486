// Display-name helpers for the shelved CLI.
package main

import (
	"fmt"

	"github.com/jcoldwell/shelved/internal/catalog"
	"github.com/jcoldwell/shelved/pkg/types"
)

// pickName chooses between a full name and its abbreviation. The short form
// wins when the user asked for it; either form stands in for a missing
// counterpart.
func pickName(full, short string, preferShort bool) string {
	if preferShort && short != "" {
		return short
	}
	if full == "" {
		return short
	}
	return full
}

// seriesDisplayName renders a series name for output, appending the vintage
// year whenever another series shares the same display name.
func seriesDisplayName(e *catalog.Engine, name, short string, preferShort bool, year int) string {
	base := pickName(name, short, preferShort)
	if e.SeriesNameCount(name) > 1 {
		return fmt.Sprintf("%s (%d)", base, year)
	}
	return base
}

// comicDisplayName renders a one-line title for a comic: the series name,
// the issue number when set, and the comic's own title when it has one.
func comicDisplayName(e *catalog.Engine, c *types.Comic) string {
	title := seriesDisplayName(e, c.SeriesName, c.ShortSeriesName, c.PrioritizeShortSeries, c.YearFirstPublished)
	if c.IssueNumber > 0 {
		title = fmt.Sprintf("%s #%d", title, c.IssueNumber)
	}
	if name := pickName(c.ComicName, c.ShortComicName, c.PrioritizeShortComic); name != "" {
		title = fmt.Sprintf("%s: %s", title, name)
	}
	return title
}
