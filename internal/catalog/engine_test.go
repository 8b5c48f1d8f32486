package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcoldwell/shelved/pkg/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(newTestStore(t), zap.NewNop())
}

func addComic(t *testing.T, e *Engine, series string, year, issue, pages int, event string) *types.Comic {
	t.Helper()
	c, err := e.AddComic(types.Comic{
		SeriesName:         series,
		YearFirstPublished: year,
		IssueNumber:        issue,
		TotalPages:         pages,
		EventName:          event,
		ReadStatus:         types.StatusRead,
	})
	require.NoError(t, err)
	return c
}

func TestAddComicCreatesRollUps(t *testing.T) {
	e := newTestEngine(t)

	first := addComic(t, e, "X", 2020, 1, 30, "E")
	second := addComic(t, e, "X", 2020, 2, 20, "E")

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	sr, err := e.Store().GetSeries(types.SeriesKey{Name: "X", Year: 2020})
	require.NoError(t, err)
	assert.Equal(t, 2, sr.IssuesRead)
	assert.Equal(t, 50, sr.PagesRead)
	assert.Equal(t, 0, sr.TotalIssues, "total issues stays unset")
	assert.Equal(t, 2, sr.RecentIssueNumber)
	assert.Equal(t, 20, sr.RecentTotalPages)

	ev, err := e.Store().GetEvent("E")
	require.NoError(t, err)
	assert.Equal(t, 2, ev.IssuesRead)
	assert.Equal(t, 50, ev.PagesRead)

	series, err := e.Store().ListSeries()
	require.NoError(t, err)
	assert.Len(t, series, 1, "both comics roll up into one series")
}

func TestAddThenRemoveKeepsRollUpsConsistent(t *testing.T) {
	e := newTestEngine(t)

	addComic(t, e, "X", 2020, 1, 30, "E")
	second := addComic(t, e, "X", 2020, 2, 20, "E")

	require.NoError(t, e.RemoveComic(second.ID))

	sr, err := e.Store().GetSeries(types.SeriesKey{Name: "X", Year: 2020})
	require.NoError(t, err)
	assert.Equal(t, 1, sr.IssuesRead)
	assert.Equal(t, 30, sr.PagesRead)

	ev, err := e.Store().GetEvent("E")
	require.NoError(t, err)
	assert.Equal(t, 1, ev.IssuesRead)
	assert.Equal(t, 30, ev.PagesRead)
}

func TestRemoveLastComicDeletesSeriesKeepsEvent(t *testing.T) {
	e := newTestEngine(t)

	c := addComic(t, e, "Saga", 2012, 1, 44, "Time Skip")
	require.NoError(t, e.RemoveComic(c.ID))

	_, err := e.Store().GetSeries(types.SeriesKey{Name: "Saga", Year: 2012})
	assert.ErrorIs(t, err, types.ErrNotFound, "empty series is deleted")

	ev, err := e.Store().GetEvent("Time Skip")
	require.NoError(t, err, "events are never auto-deleted")
	assert.Equal(t, 0, ev.IssuesRead)
	assert.Equal(t, 0, ev.PagesRead)

	assert.Equal(t, 0, e.SeriesNameCount("Saga"))
}

func TestRemoveComicWithoutEvent(t *testing.T) {
	e := newTestEngine(t)

	c := addComic(t, e, "Saga", 2012, 1, 44, "")
	require.NoError(t, e.RemoveComic(c.ID))

	events, err := e.Store().ListEvents()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRemoveComicMissingRollUpsIsSilent(t *testing.T) {
	e := newTestEngine(t)

	c := addComic(t, e, "Saga", 2012, 1, 44, "Time Skip")

	// Corrupt the data: drop both roll-ups behind the engine's back.
	sr, err := e.Store().GetSeries(types.SeriesKey{Name: "Saga", Year: 2012})
	require.NoError(t, err)
	require.NoError(t, e.Store().DeleteSeries(sr.ID))
	_, err = e.Store().db.Exec("DELETE FROM events")
	require.NoError(t, err)

	// The comic deletion itself must still succeed.
	assert.NoError(t, e.RemoveComic(c.ID))
}

func TestDecrementClampsAtZero(t *testing.T) {
	e := newTestEngine(t)

	addComic(t, e, "X", 2020, 1, 30, "E")
	second := addComic(t, e, "X", 2020, 2, 20, "E")

	// Corrupt the event counters below what the removal will subtract.
	ev, err := e.Store().GetEvent("E")
	require.NoError(t, err)
	ev.IssuesRead = 0
	ev.PagesRead = 5
	require.NoError(t, e.Store().UpdateEvent(ev))

	require.NoError(t, e.RemoveComic(second.ID))

	ev, err = e.Store().GetEvent("E")
	require.NoError(t, err)
	assert.Equal(t, 0, ev.IssuesRead, "clamped, not wrapped")
	assert.Equal(t, 0, ev.PagesRead)
}

func TestAddComicUnwindsOnSeriesFailure(t *testing.T) {
	e := newTestEngine(t)

	// Occupy the series id the allocator will hand out, so creating the
	// roll-up fails on the primary key.
	require.NoError(t, e.Store().InsertSeries(&types.Series{
		ID:                 1,
		SeriesName:         "Occupied",
		YearFirstPublished: 1999,
		IssuesRead:         1,
	}))

	_, err := e.AddComic(types.Comic{SeriesName: "Saga", YearFirstPublished: 2012, IssueNumber: 1})
	require.Error(t, err)

	// The failed add left no comic and no half-built roll-up behind.
	_, err = e.Store().GetComic(1)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = e.Store().GetSeries(types.SeriesKey{Name: "Saga", Year: 2012})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAddComicUnwindsOnEventFailure(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Store().InsertEvent(&types.Event{
		ID:        1,
		EventName: "Occupied",
	}))

	_, err := e.AddComic(types.Comic{
		SeriesName:         "Saga",
		YearFirstPublished: 2012,
		IssueNumber:        1,
		TotalPages:         44,
		EventName:          "Secret Wars",
	})
	require.Error(t, err)

	// The comic and the series contribution that preceded the event step
	// are both gone.
	_, err = e.Store().GetComic(1)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = e.Store().GetSeries(types.SeriesKey{Name: "Saga", Year: 2012})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, 0, e.SeriesNameCount("Saga"))
	_, err = e.Store().GetEvent("Secret Wars")
	assert.ErrorIs(t, err, types.ErrNotFound)

	// A later add is unaffected.
	c, err := e.AddComic(types.Comic{SeriesName: "Saga", YearFirstPublished: 2012, IssueNumber: 1, TotalPages: 44})
	require.NoError(t, err)
	assert.Greater(t, c.ID, int64(1))
}

func TestSeriesVintagesAreDistinct(t *testing.T) {
	e := newTestEngine(t)

	addComic(t, e, "X-Men", 1963, 1, 20, "")
	addComic(t, e, "X-Men", 1991, 1, 22, "")

	series, err := e.Store().ListSeries()
	require.NoError(t, err)
	assert.Len(t, series, 2)
	assert.Equal(t, 2, e.SeriesNameCount("X-Men"))

	// Removing one vintage leaves the other tracked under the same name.
	comics, err := e.Store().ListComicsByID()
	require.NoError(t, err)
	require.NoError(t, e.RemoveComic(comics[0].ID))
	assert.Equal(t, 1, e.SeriesNameCount("X-Men"))
}

func TestAddComicValidation(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.AddComic(types.Comic{YearFirstPublished: 2020})
	assert.ErrorIs(t, err, types.ErrSeriesNameEmpty)

	_, err = e.AddComic(types.Comic{SeriesName: "X", TotalPages: -1})
	assert.ErrorIs(t, err, ErrNegativeField)

	_, err = e.AddComic(types.Comic{SeriesName: "X", ReadStatus: "maybe"})
	assert.ErrorIs(t, err, types.ErrInvalidReadStatus)

	c, err := e.AddComic(types.Comic{SeriesName: "X"})
	require.NoError(t, err)
	assert.Equal(t, types.StatusNotRead, c.ReadStatus, "empty status defaults")
}

func TestIDMonotonicityAndRecalculate(t *testing.T) {
	e := newTestEngine(t)

	var ids []int64
	for i := 1; i <= 6; i++ {
		c := addComic(t, e, "Saga", 2012, i, 20, "")
		ids = append(ids, c.ID)
	}
	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}

	// Delete two from the middle, leaving gaps.
	require.NoError(t, e.RemoveComic(ids[1]))
	require.NoError(t, e.RemoveComic(ids[3]))

	require.NoError(t, e.RecalculateIDs(KindComic))

	comics, err := e.Store().ListComicsByID()
	require.NoError(t, err)
	require.Len(t, comics, 4)
	issues := make([]int, 0, 4)
	for i, c := range comics {
		assert.Equal(t, int64(i+1), c.ID)
		issues = append(issues, c.IssueNumber)
	}
	assert.Equal(t, []int{1, 3, 5, 6}, issues, "relative order preserved")

	// The allocator continues from N.
	next, err := e.AddComic(types.Comic{SeriesName: "Saga", YearFirstPublished: 2012, IssueNumber: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(5), next.ID)
}

func TestEngineLoadRebuildsState(t *testing.T) {
	e := newTestEngine(t)

	comics := []types.Comic{
		{ID: 4, SeriesName: "X-Men", YearFirstPublished: 1963, IssueNumber: 1, TotalPages: 20, ReadStatus: types.StatusRead},
		{ID: 9, SeriesName: "X-Men", YearFirstPublished: 1991, IssueNumber: 1, TotalPages: 22, EventName: "Muir Island Saga", ReadStatus: types.StatusRead},
	}
	series := []types.Series{
		{ID: 2, SeriesName: "X-Men", YearFirstPublished: 1963, IssuesRead: 1, PagesRead: 20},
		{ID: 5, SeriesName: "X-Men", YearFirstPublished: 1991, IssuesRead: 1, PagesRead: 22},
	}
	events := []types.Event{
		{ID: 3, EventName: "Muir Island Saga", IssuesRead: 1, PagesRead: 22},
	}

	require.NoError(t, e.Load(comics, series, events))

	// Gaps are closed defensively at load.
	loaded, err := e.Store().ListComicsByID()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, int64(1), loaded[0].ID)
	assert.Equal(t, int64(2), loaded[1].ID)

	assert.Equal(t, 2, e.SeriesNameCount("X-Men"))

	// New ids continue past the loaded data.
	c, err := e.AddComic(types.Comic{SeriesName: "X-Men", YearFirstPublished: 1991, IssueNumber: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
}

func TestSetTotalIssues(t *testing.T) {
	e := newTestEngine(t)

	addComic(t, e, "Saga", 2012, 1, 44, "Time Skip")

	require.NoError(t, e.SetSeriesTotalIssues(types.SeriesKey{Name: "Saga", Year: 2012}, 66))
	sr, err := e.Store().GetSeries(types.SeriesKey{Name: "Saga", Year: 2012})
	require.NoError(t, err)
	assert.Equal(t, 66, sr.TotalIssues)

	require.NoError(t, e.SetEventTotalIssues("Time Skip", 12))
	ev, err := e.Store().GetEvent("Time Skip")
	require.NoError(t, err)
	assert.Equal(t, 12, ev.TotalIssues)

	assert.ErrorIs(t, e.SetEventTotalIssues("Time Skip", -1), ErrNegativeField)
	assert.ErrorIs(t, e.SetSeriesTotalIssues(types.SeriesKey{Name: "Ghost"}, 1), types.ErrNotFound)
}

func TestStats(t *testing.T) {
	e := newTestEngine(t)

	addComic(t, e, "X", 2020, 1, 30, "E")
	addComic(t, e, "X", 2020, 2, 20, "E")
	addComic(t, e, "Saga", 2012, 1, 44, "")

	st, err := e.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalComics: 3, TotalPages: 94, TotalSeries: 2, TotalEvents: 1}, st)
}
