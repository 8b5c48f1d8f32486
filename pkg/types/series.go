package types

import "encoding/json"

// Series is a rolled-up view of one comic series. Two series sharing a name
// but first published in different years are distinct entities, so the
// identity key is (SeriesName, YearFirstPublished).
type Series struct {
	ID int64

	BrandName            string
	ShortBrandName       string
	PrioritizeShortBrand bool

	SeriesName            string
	ShortSeriesName       string
	PrioritizeShortSeries bool

	YearFirstPublished int

	// IssuesRead and PagesRead are maintained incrementally by the
	// aggregation engine and always equal the live comics matching this
	// series' identity key. TotalIssues is user-owned: zero means "not yet
	// set" and it is never derived from the catalogue.
	IssuesRead  int
	TotalIssues int
	PagesRead   int

	// Recent* snapshot the most recently added comic in this series, used
	// to pre-fill a follow-on entry.
	RecentIssueNumber int
	RecentTotalPages  int
	RecentEventName   string
	RecentPurpose     string
}

// Key returns the series identity key.
func (s *Series) Key() SeriesKey {
	return SeriesKey{Name: s.SeriesName, Year: s.YearFirstPublished}
}

// SeriesKey identifies a series by name and vintage.
type SeriesKey struct {
	Name string
	Year int
}

// UpdateRecent overwrites the recent-comic snapshot with the given comic's
// values.
func (s *Series) UpdateRecent(c *Comic) {
	s.RecentIssueNumber = c.IssueNumber
	s.RecentTotalPages = c.TotalPages
	s.RecentEventName = c.EventName
	s.RecentPurpose = c.Purpose
}

// seriesWire is the on-disk shape of a Series.
type seriesWire struct {
	ID          int64    `json:"id"`
	Brand       string   `json:"brand,omitempty"`
	ShortBrand  string   `json:"sBrand,omitempty"`
	PSBrand     flexBool `json:"psBrand,omitempty"`
	Series      string   `json:"series,omitempty"`
	ShortSeries string   `json:"sSeries,omitempty"`
	PSSeries    flexBool `json:"psSeries,omitempty"`
	Year        int      `json:"year,omitempty"`
	IssuesRead  int      `json:"issuesRead,omitempty"`
	TotalIssues int      `json:"totalIssues,omitempty"`
	Pages       int      `json:"pages,omitempty"`
	RIssue      int      `json:"rIssue,omitempty"`
	RTotalPages int      `json:"rTotalPages,omitempty"`
	REvent      string   `json:"rEvent,omitempty"`
	RPurpose    string   `json:"rPurpose,omitempty"`
}

// MarshalJSON encodes the series in the compact wire format.
func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(seriesWire{
		ID:          s.ID,
		Brand:       s.BrandName,
		ShortBrand:  s.ShortBrandName,
		PSBrand:     flexBool(s.PrioritizeShortBrand),
		Series:      s.SeriesName,
		ShortSeries: s.ShortSeriesName,
		PSSeries:    flexBool(s.PrioritizeShortSeries),
		Year:        s.YearFirstPublished,
		IssuesRead:  s.IssuesRead,
		TotalIssues: s.TotalIssues,
		Pages:       s.PagesRead,
		RIssue:      s.RecentIssueNumber,
		RTotalPages: s.RecentTotalPages,
		REvent:      s.RecentEventName,
		RPurpose:    s.RecentPurpose,
	})
}

// UnmarshalJSON decodes a series from any backup generation.
func (s *Series) UnmarshalJSON(data []byte) error {
	var w seriesWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Series{
		ID:                    w.ID,
		BrandName:             w.Brand,
		ShortBrandName:        w.ShortBrand,
		PrioritizeShortBrand:  bool(w.PSBrand),
		SeriesName:            w.Series,
		ShortSeriesName:       w.ShortSeries,
		PrioritizeShortSeries: bool(w.PSSeries),
		YearFirstPublished:    w.Year,
		IssuesRead:            w.IssuesRead,
		TotalIssues:           w.TotalIssues,
		PagesRead:             w.Pages,
		RecentIssueNumber:     w.RIssue,
		RecentTotalPages:      w.RTotalPages,
		RecentEventName:       w.REvent,
		RecentPurpose:         w.RPurpose,
	}
	return nil
}
