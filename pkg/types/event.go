package types

import "encoding/json"

// Event is a rolled-up view of one comic event: a named cross-series
// grouping such as a crossover storyline. Unlike series, the identity key
// is the event name alone; the brand is descriptive metadata.
//
// Events are user-curated reading lists, so the engine never deletes one
// automatically even when its counters drop to zero.
type Event struct {
	ID int64

	BrandName            string
	ShortBrandName       string
	PrioritizeShortBrand bool

	EventName string

	// IssuesRead and PagesRead are engine-owned roll-ups over comics whose
	// event name matches. TotalIssues is user-owned; zero means "not yet
	// set".
	IssuesRead  int
	TotalIssues int
	PagesRead   int
}

// eventWire is the on-disk shape of an Event.
type eventWire struct {
	ID          int64    `json:"id"`
	Brand       string   `json:"brand,omitempty"`
	ShortBrand  string   `json:"sBrand,omitempty"`
	PSBrand     flexBool `json:"psBrand,omitempty"`
	Event       string   `json:"event,omitempty"`
	IssuesRead  int      `json:"issuesRead,omitempty"`
	TotalIssues int      `json:"totalIssues,omitempty"`
	Pages       int      `json:"pages,omitempty"`
}

// MarshalJSON encodes the event in the compact wire format.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventWire{
		ID:          e.ID,
		Brand:       e.BrandName,
		ShortBrand:  e.ShortBrandName,
		PSBrand:     flexBool(e.PrioritizeShortBrand),
		Event:       e.EventName,
		IssuesRead:  e.IssuesRead,
		TotalIssues: e.TotalIssues,
		Pages:       e.PagesRead,
	})
}

// UnmarshalJSON decodes an event from any backup generation.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Event{
		ID:                   w.ID,
		BrandName:            w.Brand,
		ShortBrandName:       w.ShortBrand,
		PrioritizeShortBrand: bool(w.PSBrand),
		EventName:            w.Event,
		IssuesRead:           w.IssuesRead,
		TotalIssues:          w.TotalIssues,
		PagesRead:            w.Pages,
	}
	return nil
}
