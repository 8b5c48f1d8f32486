package catalog

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jcoldwell/shelved/pkg/types"
)

// ErrNegativeField is returned when a draft comic carries a negative
// numeric field.
var ErrNegativeField = errors.New("numeric field must not be negative")

// Engine owns all mutation of the record collections. Adding or removing a
// comic fans out to the matching series and event roll-ups so their
// counters never drift from the comics they summarize.
type Engine struct {
	store *Store
	alloc *Allocator
	log   *zap.Logger

	// seriesNames counts distinct series identities per display name.
	// A count above one means the display layer must disambiguate by
	// vintage year.
	seriesNames map[string]int
}

// NewEngine returns an engine over the given store with fresh allocators
// and an empty series-name index.
func NewEngine(store *Store, log *zap.Logger) *Engine {
	return &Engine{
		store:       store,
		alloc:       NewAllocator(),
		log:         log,
		seriesNames: make(map[string]int),
	}
}

// Store exposes the underlying store for read-only listing.
func (e *Engine) Store() *Store {
	return e.store
}

// AddComic allocates an id for the draft, stores it, and rolls it up into
// its series (creating one on first sight) and, when an event name is set,
// its event. Exactly one series and at most one event are touched.
// Persistence is the caller's concern; this only mutates in-memory state.
func (e *Engine) AddComic(draft types.Comic) (*types.Comic, error) {
	if draft.SeriesName == "" {
		return nil, types.ErrSeriesNameEmpty
	}
	if draft.YearFirstPublished < 0 || draft.IssueNumber < 0 || draft.TotalPages < 0 {
		return nil, ErrNegativeField
	}
	if draft.ReadStatus == "" {
		draft.ReadStatus = types.StatusNotRead
	}
	if !types.ValidReadStatus(draft.ReadStatus) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidReadStatus, draft.ReadStatus)
	}

	draft.ID = e.alloc.Next(KindComic)
	if err := e.store.InsertComic(&draft); err != nil {
		return nil, err
	}
	if err := e.addToSeries(&draft); err != nil {
		e.unwindComic(&draft, false)
		return nil, err
	}
	if err := e.addToEvent(&draft); err != nil {
		e.unwindComic(&draft, true)
		return nil, err
	}
	return &draft, nil
}

// unwindComic removes a comic whose roll-up failed partway, so an error
// never leaves a stored comic with no aggregate contribution. The series
// step is reversed only when it had already succeeded.
func (e *Engine) unwindComic(c *types.Comic, seriesApplied bool) {
	if seriesApplied {
		if err := e.removeFromSeries(c); err != nil {
			e.log.Warn("failed to unwind series roll-up", zap.Int64("comic_id", c.ID), zap.Error(err))
		}
	}
	if err := e.store.DeleteComic(c.ID); err != nil {
		e.log.Warn("failed to unwind comic insert", zap.Int64("comic_id", c.ID), zap.Error(err))
	}
}

// addToSeries rolls the comic up into its series, creating the series
// seeded from the comic when this is the first matching one.
func (e *Engine) addToSeries(c *types.Comic) error {
	sr, err := e.store.GetSeries(types.SeriesKey{Name: c.SeriesName, Year: c.YearFirstPublished})
	if errors.Is(err, types.ErrNotFound) {
		sr = &types.Series{
			ID:                    e.alloc.Next(KindSeries),
			BrandName:             c.BrandName,
			ShortBrandName:        c.ShortBrandName,
			PrioritizeShortBrand:  c.PrioritizeShortBrand,
			SeriesName:            c.SeriesName,
			ShortSeriesName:       c.ShortSeriesName,
			PrioritizeShortSeries: c.PrioritizeShortSeries,
			YearFirstPublished:    c.YearFirstPublished,
			IssuesRead:            1,
			TotalIssues:           0,
			PagesRead:             c.TotalPages,
		}
		sr.UpdateRecent(c)
		if err := e.store.InsertSeries(sr); err != nil {
			return err
		}
		e.seriesNames[sr.SeriesName]++
		return nil
	}
	if err != nil {
		return err
	}

	sr.IssuesRead++
	sr.PagesRead += c.TotalPages
	sr.UpdateRecent(c)
	return e.store.UpdateSeries(sr)
}

// addToEvent rolls the comic up into its event, creating the event seeded
// from the comic when this is the first matching one. An empty event name
// means no event and is a no-op.
func (e *Engine) addToEvent(c *types.Comic) error {
	if c.EventName == "" {
		return nil
	}
	ev, err := e.store.GetEvent(c.EventName)
	if errors.Is(err, types.ErrNotFound) {
		ev = &types.Event{
			ID:                   e.alloc.Next(KindEvent),
			BrandName:            c.BrandName,
			ShortBrandName:       c.ShortBrandName,
			PrioritizeShortBrand: c.PrioritizeShortBrand,
			EventName:            c.EventName,
			IssuesRead:           1,
			TotalIssues:          0,
			PagesRead:            c.TotalPages,
		}
		return e.store.InsertEvent(ev)
	}
	if err != nil {
		return err
	}

	ev.IssuesRead++
	ev.PagesRead += c.TotalPages
	return e.store.UpdateEvent(ev)
}

// RemoveComic deletes a comic and symmetrically unwinds its roll-ups: the
// series counters are decremented (and the series deleted when its issue
// count reaches zero), the event counters are decremented but the event is
// always kept. A missing roll-up means the data was already inconsistent;
// the deletion still goes through and the gap is logged.
func (e *Engine) RemoveComic(id int64) error {
	c, err := e.store.GetComic(id)
	if err != nil {
		return err
	}
	if err := e.store.DeleteComic(id); err != nil {
		return err
	}
	if err := e.removeFromSeries(c); err != nil {
		return err
	}
	return e.removeFromEvent(c)
}

func (e *Engine) removeFromSeries(c *types.Comic) error {
	sr, err := e.store.GetSeries(types.SeriesKey{Name: c.SeriesName, Year: c.YearFirstPublished})
	if errors.Is(err, types.ErrNotFound) {
		e.log.Warn("no series roll-up for removed comic",
			zap.Int64("comic_id", c.ID),
			zap.String("series", c.SeriesName),
			zap.Int("year", c.YearFirstPublished))
		return nil
	}
	if err != nil {
		return err
	}

	sr.IssuesRead = e.clampSub(sr.IssuesRead, 1, "series issues_read", sr.SeriesName)
	sr.PagesRead = e.clampSub(sr.PagesRead, c.TotalPages, "series pages_read", sr.SeriesName)

	if sr.IssuesRead == 0 {
		// The usage index counts series identities, so it only moves when
		// a series is created or deleted.
		if count := e.seriesNames[sr.SeriesName]; count <= 1 {
			delete(e.seriesNames, sr.SeriesName)
		} else {
			e.seriesNames[sr.SeriesName] = count - 1
		}
		return e.store.DeleteSeries(sr.ID)
	}
	return e.store.UpdateSeries(sr)
}

func (e *Engine) removeFromEvent(c *types.Comic) error {
	if c.EventName == "" {
		return nil
	}
	ev, err := e.store.GetEvent(c.EventName)
	if errors.Is(err, types.ErrNotFound) {
		e.log.Warn("no event roll-up for removed comic",
			zap.Int64("comic_id", c.ID),
			zap.String("event", c.EventName))
		return nil
	}
	if err != nil {
		return err
	}

	ev.IssuesRead = e.clampSub(ev.IssuesRead, 1, "event issues_read", ev.EventName)
	ev.PagesRead = e.clampSub(ev.PagesRead, c.TotalPages, "event pages_read", ev.EventName)

	// Events are user-curated reading lists; never auto-delete one, even
	// at zero.
	return e.store.UpdateEvent(ev)
}

// clampSub subtracts delta from current, clamping at zero. A clamp means a
// counter no longer matched the comics beneath it; that is a consistency
// warning, not a crash.
func (e *Engine) clampSub(current, delta int, counter, name string) int {
	result := current - delta
	if result < 0 {
		e.log.Warn("counter would underflow, clamping to zero",
			zap.String("counter", counter),
			zap.String("name", name),
			zap.Int("current", current),
			zap.Int("delta", delta))
		return 0
	}
	return result
}

// Load populates the store from decoded backup collections, seeds the
// allocators from the largest loaded ids, closes any id gaps left by past
// create/delete cycles, and rebuilds the series-name index.
func (e *Engine) Load(comics []types.Comic, series []types.Series, events []types.Event) error {
	for i := range comics {
		if err := e.store.InsertComic(&comics[i]); err != nil {
			return err
		}
	}
	for i := range series {
		if err := e.store.InsertSeries(&series[i]); err != nil {
			return err
		}
	}
	for i := range events {
		if err := e.store.InsertEvent(&events[i]); err != nil {
			return err
		}
	}

	for _, kind := range []Kind{KindComic, KindSeries, KindEvent} {
		max, err := e.store.MaxID(kind)
		if err != nil {
			return err
		}
		e.alloc.Seed(kind, max)
		if err := e.RecalculateIDs(kind); err != nil {
			return err
		}
	}

	return e.RebuildSeriesNameIndex()
}

// RecalculateIDs renumbers the kind's collection to 1..N in current id
// order and resets the allocator to continue from N. Idempotent.
func (e *Engine) RecalculateIDs(kind Kind) error {
	ids, err := e.collectIDs(kind)
	if err != nil {
		return err
	}
	if err := e.store.Renumber(kind, ids); err != nil {
		return err
	}
	e.alloc.Reset(kind, int64(len(ids)))
	return nil
}

// collectIDs returns the kind's current ids in ascending order.
func (e *Engine) collectIDs(kind Kind) ([]int64, error) {
	switch kind {
	case KindComic:
		comics, err := e.store.ListComicsByID()
		if err != nil {
			return nil, err
		}
		ids := make([]int64, len(comics))
		for i, c := range comics {
			ids[i] = c.ID
		}
		return ids, nil
	case KindSeries:
		series, err := e.store.ListSeries()
		if err != nil {
			return nil, err
		}
		ids := make([]int64, len(series))
		for i, sr := range series {
			ids[i] = sr.ID
		}
		return ids, nil
	default:
		events, err := e.store.ListEvents()
		if err != nil {
			return nil, err
		}
		ids := make([]int64, len(events))
		for i, ev := range events {
			ids[i] = ev.ID
		}
		return ids, nil
	}
}

// RebuildSeriesNameIndex recounts series display names from the loaded
// series collection. Linear in the number of series; only run at load.
func (e *Engine) RebuildSeriesNameIndex() error {
	series, err := e.store.ListSeries()
	if err != nil {
		return err
	}
	e.seriesNames = make(map[string]int, len(series))
	for _, sr := range series {
		e.seriesNames[sr.SeriesName]++
	}
	return nil
}

// SeriesNameCount reports how many distinct series identities share the
// display name. Above one, the display layer appends the vintage year.
func (e *Engine) SeriesNameCount(name string) int {
	return e.seriesNames[name]
}

// SetSeriesTotalIssues records the user-supplied issue total for a series.
// TotalIssues is the one user-owned counter on a roll-up; it is never
// derived.
func (e *Engine) SetSeriesTotalIssues(key types.SeriesKey, total int) error {
	if total < 0 {
		return ErrNegativeField
	}
	sr, err := e.store.GetSeries(key)
	if err != nil {
		return err
	}
	sr.TotalIssues = total
	return e.store.UpdateSeries(sr)
}

// SetEventTotalIssues records the user-supplied issue total for an event.
func (e *Engine) SetEventTotalIssues(name string, total int) error {
	if total < 0 {
		return ErrNegativeField
	}
	ev, err := e.store.GetEvent(name)
	if err != nil {
		return err
	}
	ev.TotalIssues = total
	return e.store.UpdateEvent(ev)
}

// Stats is the catalogue-wide roll-up shown by the stats view.
type Stats struct {
	TotalComics int
	TotalPages  int
	TotalSeries int
	TotalEvents int
}

// Stats computes the catalogue-wide totals.
func (e *Engine) Stats() (Stats, error) {
	var st Stats
	err := e.store.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(total_pages), 0) FROM comics",
	).Scan(&st.TotalComics, &st.TotalPages)
	if err != nil {
		return Stats{}, fmt.Errorf("computing comic totals: %w", err)
	}
	if err := e.store.db.QueryRow("SELECT COUNT(*) FROM series").Scan(&st.TotalSeries); err != nil {
		return Stats{}, fmt.Errorf("counting series: %w", err)
	}
	if err := e.store.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&st.TotalEvents); err != nil {
		return Stats{}, fmt.Errorf("counting events: %w", err)
	}
	return st, nil
}
