package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcoldwell/shelved/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), types.DefaultKeepBackups, zap.NewNop())
}

func TestResolveLoadDirEmptyRoot(t *testing.T) {
	t.Run("root does not exist", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "missing"), 5, zap.NewNop())
		_, found, err := s.ResolveLoadDir()
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("root has no dated folders", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "not-a-date"), 0o755))
		_, found, err := s.ResolveLoadDir()
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestResolveLoadDirPicksNewestAndRotates(t *testing.T) {
	s := newTestStore(t)

	// Seven generations, 1-1-2024 through 7-1-2024.
	for day := 1; day <= 7; day++ {
		require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), fmt.Sprintf("%d-1-2024", day)), 0o755))
	}
	// Folders that do not parse as dates are left alone.
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "scratch"), 0o755))

	dir, found, err := s.ResolveLoadDir()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, filepath.Join(s.Root(), "7-1-2024"), dir)

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	var remaining []string
	for _, e := range entries {
		remaining = append(remaining, e.Name())
	}
	assert.ElementsMatch(t,
		[]string{"3-1-2024", "4-1-2024", "5-1-2024", "6-1-2024", "7-1-2024", "scratch"},
		remaining,
		"the five most recent generations survive, oldest two are pruned")
}

func TestResolveLoadDirOrdersByDateNotName(t *testing.T) {
	s := newTestStore(t)

	// Lexically "9-8-2024" sorts after "10-8-2024"; by date it is older.
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "9-8-2024"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "10-8-2024"), 0o755))

	dir, found, err := s.ResolveLoadDir()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, filepath.Join(s.Root(), "10-8-2024"), dir)
}

func TestResolveSaveDirCreatesTodaysFolder(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2024, 8, 9, 10, 0, 0, 0, time.UTC) }

	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "9-8-2024"), dir)
	assert.DirExists(t, dir)

	// Resolving again is idempotent.
	again, err := s.ResolveSaveDir()
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestSaveAllLoadAllRoundTrip(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)

	date := time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Comics: []types.Comic{
			{ID: 1, BrandName: "Marvel", SeriesName: "X", YearFirstPublished: 2020, IssueNumber: 1, TotalPages: 30, EventName: "E", DateRead: &date, ReadStatus: types.StatusRead},
			{ID: 2, BrandName: "Marvel", SeriesName: "X", YearFirstPublished: 2020, IssueNumber: 2, TotalPages: 20, EventName: "E", ReadStatus: types.StatusNotRead},
		},
		Series: []types.Series{
			{ID: 1, BrandName: "Marvel", SeriesName: "X", YearFirstPublished: 2020, IssuesRead: 2, PagesRead: 50, RecentIssueNumber: 2, RecentTotalPages: 20, RecentEventName: "E"},
		},
		Events: []types.Event{
			{ID: 1, BrandName: "Marvel", EventName: "E", IssuesRead: 2, PagesRead: 50},
		},
	}
	require.NoError(t, s.SaveAll(dir, snap))

	loaded, complete, err := s.LoadAll(dir)
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, snap, loaded)
}

func TestSaveAllEmptyCollectionsWriteArrays(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)

	require.NoError(t, s.SaveAll(dir, Snapshot{}))

	for _, file := range []string{ComicsFile, SeriesFile, EventsFile} {
		data, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data), file)
	}
}

func TestSaveAllWriteFailuresArePerKind(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)

	// A directory squatting on the series filename makes the final rename
	// fail for that kind only.
	require.NoError(t, os.Mkdir(filepath.Join(dir, SeriesFile), 0o755))

	snap := Snapshot{
		Comics: []types.Comic{{ID: 1, SeriesName: "Saga", YearFirstPublished: 2012, ReadStatus: types.StatusRead}},
		Series: []types.Series{{ID: 1, SeriesName: "Saga", YearFirstPublished: 2012, IssuesRead: 1}},
		Events: []types.Event{{ID: 1, EventName: "Secret Wars"}},
	}
	err = s.SaveAll(dir, snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), SeriesFile)

	// The kinds that could be written were written and stay readable.
	comics, found, err := s.ReadComics(dir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, comics, 1)

	events, found, err := s.ReadEvents(dir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, events, 1)
}

func TestReadCollectionTriState(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)

	t.Run("missing file is none, not failure", func(t *testing.T) {
		comics, found, err := s.ReadComics(dir)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, comics)
	})

	t.Run("malformed file is failure, not none", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ComicsFile), []byte("{not json"), 0o644))
		_, found, err := s.ReadComics(dir)
		assert.True(t, found)
		assert.Error(t, err)
	})
}

func TestLoadAllDistinguishesMissingFromFailure(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)

	t.Run("one kind missing means incomplete", func(t *testing.T) {
		require.NoError(t, s.WriteComics(dir, []types.Comic{{ID: 1, SeriesName: "X"}}))
		require.NoError(t, s.WriteSeries(dir, []types.Series{{ID: 1, SeriesName: "X"}}))

		snap, complete, err := s.LoadAll(dir)
		require.NoError(t, err)
		assert.False(t, complete)
		assert.Len(t, snap.Comics, 1)
		assert.Empty(t, snap.Events)
	})

	t.Run("one malformed kind fails the load", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, EventsFile), []byte("]["), 0o644))
		_, _, err := s.LoadAll(dir)
		assert.Error(t, err)
	})
}

func TestSaveAllWritesManifest(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2024, 8, 9, 10, 0, 0, 0, time.UTC) }
	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)

	snap := Snapshot{Comics: []types.Comic{{ID: 1, SeriesName: "X"}}}
	require.NoError(t, s.SaveAll(dir, snap))

	m, ok := s.ReadManifest(dir)
	require.True(t, ok)
	assert.NotEmpty(t, m.SnapshotID)
	assert.Equal(t, 1, m.Comics)
	assert.Equal(t, 0, m.Series)
	assert.Equal(t, time.Date(2024, 8, 9, 10, 0, 0, 0, time.UTC), m.SavedAt)
}

func TestReadManifestMissingOrMalformed(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)

	_, ok := s.ReadManifest(dir)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte("garbage"), 0o644))
	_, ok = s.ReadManifest(dir)
	assert.False(t, ok)
}

func TestWriteCollectionLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.ResolveSaveDir()
	require.NoError(t, err)

	require.NoError(t, s.WriteComics(dir, []types.Comic{{ID: 1, SeriesName: "X"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
