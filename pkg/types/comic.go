package types

import (
	"encoding/json"
	"time"
)

// Comic is one read comic book. The ID doubles as read order: a higher ID
// was read later.
type Comic struct {
	ID int64

	BrandName            string // Publisher or franchise, e.g. "Marvel".
	ShortBrandName       string // Abbreviation, e.g. "TWD".
	PrioritizeShortBrand bool   // Prefer the short form even when it fits.

	SeriesName            string
	ShortSeriesName       string
	PrioritizeShortSeries bool

	// ComicName is an optional distinct title within the series, for books
	// that carry their own names instead of (or as well as) issue numbers.
	ComicName            string
	ShortComicName       string
	PrioritizeShortComic bool

	// YearFirstPublished identifies the series vintage, not this issue's
	// publish year. It is part of the series identity key.
	YearFirstPublished int
	IssueNumber        int
	TotalPages         int

	EventName    string     // Empty means "no event".
	Purpose      string     // Free-text reason for reading.
	DateRead     *time.Time // Nil means unknown.
	ExternalLink string     // Reference URL, e.g. a publisher reading page.
	ReadStatus   string     // One of the Status constants.
}

// comicWire is the on-disk shape of a Comic. Keys are abbreviated to keep
// backup files small; the long field names only exist in memory.
type comicWire struct {
	ID          int64    `json:"id"`
	Brand       string   `json:"brand,omitempty"`
	ShortBrand  string   `json:"sBrand,omitempty"`
	PSBrand     flexBool `json:"psBrand,omitempty"`
	Series      string   `json:"series,omitempty"`
	ShortSeries string   `json:"sSeries,omitempty"`
	PSSeries    flexBool `json:"psSeries,omitempty"`
	Comic       string   `json:"comic,omitempty"`
	ShortComic  string   `json:"sComic,omitempty"`
	PSComic     flexBool `json:"psComic,omitempty"`
	Year        int      `json:"year,omitempty"`
	Issue       int      `json:"issue,omitempty"`
	Pages       int      `json:"pages,omitempty"`
	Event       string   `json:"event,omitempty"`
	Purpose     string   `json:"purpose,omitempty"`
	Date        flexDate `json:"date,omitempty"`
	Link        string   `json:"link,omitempty"`
	Read        string   `json:"read,omitempty"`
}

// MarshalJSON encodes the comic in the compact wire format. Fields holding
// their defaults are omitted entirely.
func (c Comic) MarshalJSON() ([]byte, error) {
	return json.Marshal(comicWire{
		ID:          c.ID,
		Brand:       c.BrandName,
		ShortBrand:  c.ShortBrandName,
		PSBrand:     flexBool(c.PrioritizeShortBrand),
		Series:      c.SeriesName,
		ShortSeries: c.ShortSeriesName,
		PSSeries:    flexBool(c.PrioritizeShortSeries),
		Comic:       c.ComicName,
		ShortComic:  c.ShortComicName,
		PSComic:     flexBool(c.PrioritizeShortComic),
		Year:        c.YearFirstPublished,
		Issue:       c.IssueNumber,
		Pages:       c.TotalPages,
		Event:       c.EventName,
		Purpose:     c.Purpose,
		Date:        flexDate(encodeDate(c.DateRead)),
		Link:        c.ExternalLink,
		Read:        wireReadStatus(c.ReadStatus),
	})
}

// wireReadStatus omits NotRead, the decode default, from output.
func wireReadStatus(s string) string {
	if s == StatusNotRead {
		return ""
	}
	return s
}

// UnmarshalJSON decodes a comic from any backup generation. Missing keys
// fall back to defaults; unknown keys are ignored.
func (c *Comic) UnmarshalJSON(data []byte) error {
	var w comicWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	date, err := decodeDate(string(w.Date))
	if err != nil {
		return err
	}
	status, err := decodeReadStatus(w.Read)
	if err != nil {
		return err
	}
	*c = Comic{
		ID:                    w.ID,
		BrandName:             w.Brand,
		ShortBrandName:        w.ShortBrand,
		PrioritizeShortBrand:  bool(w.PSBrand),
		SeriesName:            w.Series,
		ShortSeriesName:       w.ShortSeries,
		PrioritizeShortSeries: bool(w.PSSeries),
		ComicName:             w.Comic,
		ShortComicName:        w.ShortComic,
		PrioritizeShortComic:  bool(w.PSComic),
		YearFirstPublished:    w.Year,
		IssueNumber:           w.Issue,
		TotalPages:            w.Pages,
		EventName:             w.Event,
		Purpose:               w.Purpose,
		DateRead:              date,
		ExternalLink:          w.Link,
		ReadStatus:            status,
	}
	return nil
}
