package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jcoldwell/shelved/pkg/types"
)

// Backup filenames, one per entity kind. The names are part of the on-disk
// contract and must not change while old generations remain loadable.
const (
	ComicsFile = "backup_comic_data.json"
	SeriesFile = "backup_comic_series.json"
	EventsFile = "backup_comic_event.json"
)

// Store reads and writes backup generations beneath a single root.
type Store struct {
	root string
	keep int
	log  *zap.Logger

	// now is swapped out in tests to pin "today".
	now func() time.Time
}

// NewStore returns a backup store rooted at root, retaining keep dated
// folders.
func NewStore(root string, keep int, log *zap.Logger) *Store {
	return &Store{root: root, keep: keep, log: log, now: time.Now}
}

// Root returns the backup root directory.
func (s *Store) Root() string {
	return s.root
}

// ResolveLoadDir returns the newest dated folder under the root, or found
// == false when no valid dated folder exists (a brand-new install). As a
// retention side effect it deletes all but the keep most recent dated
// folders, oldest first.
func (s *Store) ResolveLoadDir() (dir string, found bool, err error) {
	entries, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading backup root %s: %w", s.root, err)
	}

	type dated struct {
		name string
		date time.Time
	}
	var folders []dated
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		date, ok := parseFolderDate(entry.Name())
		if !ok {
			continue
		}
		folders = append(folders, dated{name: entry.Name(), date: date})
	}
	if len(folders) == 0 {
		return "", false, nil
	}

	sort.Slice(folders, func(i, j int) bool {
		return folders[i].date.After(folders[j].date)
	})

	for _, old := range folders[min(s.keep, len(folders)):] {
		path := filepath.Join(s.root, old.name)
		if err := os.RemoveAll(path); err != nil {
			// A folder that cannot be deleted is not worth failing the
			// load over; it will be retried next launch.
			s.log.Warn("failed to delete old backup folder", zap.String("path", path), zap.Error(err))
			continue
		}
		s.log.Info("deleted old backup folder", zap.String("path", path))
	}

	return filepath.Join(s.root, folders[0].name), true, nil
}

// ResolveSaveDir returns today's dated folder, creating it (and the root)
// if absent.
func (s *Store) ResolveSaveDir() (string, error) {
	dir := filepath.Join(s.root, folderName(s.now()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating save folder %s: %w", dir, err)
	}
	return dir, nil
}

// Snapshot is one complete backup generation in memory.
type Snapshot struct {
	Comics []types.Comic
	Series []types.Series
	Events []types.Event
}

// WriteComics serializes the comic collection into dir.
func (s *Store) WriteComics(dir string, comics []types.Comic) error {
	return writeCollection(filepath.Join(dir, ComicsFile), comics)
}

// WriteSeries serializes the series collection into dir.
func (s *Store) WriteSeries(dir string, series []types.Series) error {
	return writeCollection(filepath.Join(dir, SeriesFile), series)
}

// WriteEvents serializes the event collection into dir.
func (s *Store) WriteEvents(dir string, events []types.Event) error {
	return writeCollection(filepath.Join(dir, EventsFile), events)
}

// SaveAll writes all three collections into dir, then a manifest recording
// the generation. Writes are per-kind: a failed kind never blocks the
// others, and a file that was already written stays written. The returned
// error joins every kind that failed.
func (s *Store) SaveAll(dir string, snap Snapshot) error {
	var errs []error
	if err := s.WriteComics(dir, snap.Comics); err != nil {
		errs = append(errs, err)
	}
	if err := s.WriteSeries(dir, snap.Series); err != nil {
		errs = append(errs, err)
	}
	if err := s.WriteEvents(dir, snap.Events); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	// The manifest is informational; a failure to write it does not fail
	// the save.
	if err := s.writeManifest(dir, snap); err != nil {
		s.log.Warn("failed to write backup manifest", zap.String("dir", dir), zap.Error(err))
	}

	s.log.Info("backup written",
		zap.String("dir", dir),
		zap.Int("comics", len(snap.Comics)),
		zap.Int("series", len(snap.Series)),
		zap.Int("events", len(snap.Events)))
	return nil
}

// ReadComics deserializes the comic collection from dir. found == false
// means the file does not exist, which is expected for a kind with no
// prior data and is distinct from a parse failure.
func (s *Store) ReadComics(dir string) (comics []types.Comic, found bool, err error) {
	found, err = readCollection(filepath.Join(dir, ComicsFile), &comics)
	return comics, found, err
}

// ReadSeries deserializes the series collection from dir.
func (s *Store) ReadSeries(dir string) (series []types.Series, found bool, err error) {
	found, err = readCollection(filepath.Join(dir, SeriesFile), &series)
	return series, found, err
}

// ReadEvents deserializes the event collection from dir.
func (s *Store) ReadEvents(dir string) (events []types.Event, found bool, err error) {
	found, err = readCollection(filepath.Join(dir, EventsFile), &events)
	return events, found, err
}

// LoadAll reads all three collections from dir. complete == false means no
// read failed but at least one file was missing (a partially new install).
// Any parse or I/O failure makes the whole load fail; user data is never
// silently replaced with an empty catalogue.
func (s *Store) LoadAll(dir string) (snap Snapshot, complete bool, err error) {
	var (
		errs    []error
		missing bool
	)

	comics, found, err := s.ReadComics(dir)
	if err != nil {
		errs = append(errs, err)
	} else if !found {
		missing = true
	}
	series, found, err := s.ReadSeries(dir)
	if err != nil {
		errs = append(errs, err)
	} else if !found {
		missing = true
	}
	events, found, err := s.ReadEvents(dir)
	if err != nil {
		errs = append(errs, err)
	} else if !found {
		missing = true
	}

	if err := errors.Join(errs...); err != nil {
		return Snapshot{}, false, err
	}

	snap = Snapshot{Comics: comics, Series: series, Events: events}
	s.log.Info("backup loaded",
		zap.String("dir", dir),
		zap.Int("comics", len(snap.Comics)),
		zap.Int("series", len(snap.Series)),
		zap.Int("events", len(snap.Events)))
	return snap, !missing, nil
}

// writeCollection marshals records to a JSON array and writes it
// atomically. An empty collection writes "[]", never "null".
func writeCollection[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readCollection unmarshals a JSON array of records from path.
func readCollection[T any](path string, records *[]T) (found bool, err error) {
	data, found, err := readFile(path)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal(data, records); err != nil {
		return true, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
