// Package session ties the in-memory catalogue to the backup store on disk.
// A Session owns one catalogue lifetime: open loads the newest backup into
// the engine, mutations go through the session so they can trigger an
// automatic save, and Save writes a full snapshot to today's folder.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jcoldwell/shelved/internal/backup"
	"github.com/jcoldwell/shelved/internal/catalog"
	"github.com/jcoldwell/shelved/pkg/types"
)

// Outcome reports how the most recent save attempt ended.
type Outcome int

const (
	// OutcomeNone means no save has been attempted this session.
	OutcomeNone Outcome = iota
	// OutcomeSaved means the last save wrote a complete snapshot.
	OutcomeSaved
	// OutcomeFailed means the last save reported an error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// Session is the single entry point for catalogue mutation and persistence.
// Construct one per process; it is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	engine   *catalog.Engine
	backups  *backup.Store
	log      *zap.Logger
	autoSave bool

	lastOutcome Outcome
}

// New wires an opened engine to a backup store. When autoSave is set, every
// mutating call is followed by a save to today's folder.
func New(engine *catalog.Engine, backups *backup.Store, log *zap.Logger, autoSave bool) *Session {
	return &Session{
		engine:   engine,
		backups:  backups,
		log:      log,
		autoSave: autoSave,
	}
}

// Engine exposes the catalogue for read-only queries. Mutations must go
// through the session so saving stays consistent.
func (s *Session) Engine() *catalog.Engine {
	return s.engine
}

// Backups exposes the backup store for path reporting.
func (s *Session) Backups() *backup.Store {
	return s.backups
}

// Open loads the newest backup into the engine. A missing backup root or an
// incomplete folder is a first run, not an error: whatever was found is
// loaded and a fresh snapshot is written so today's folder is complete. A
// backup that exists but fails to decode aborts the open; partial state
// must never masquerade as the catalogue.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadDir, found, err := s.backups.ResolveLoadDir()
	if err != nil {
		return fmt.Errorf("resolving backup folder: %w", err)
	}

	var snap backup.Snapshot
	complete := false
	if found {
		snap, complete, err = s.backups.LoadAll(loadDir)
		if err != nil {
			return fmt.Errorf("loading backup %s: %w", loadDir, err)
		}
	}

	if err := s.engine.Load(snap.Comics, snap.Series, snap.Events); err != nil {
		return fmt.Errorf("populating catalogue: %w", err)
	}
	s.log.Info("catalogue opened",
		zap.Int("comics", len(snap.Comics)),
		zap.Int("series", len(snap.Series)),
		zap.Int("events", len(snap.Events)),
		zap.Bool("backup_found", found))

	saveDir, err := s.backups.ResolveSaveDir()
	if err != nil {
		return fmt.Errorf("preparing today's folder: %w", err)
	}
	if !found || !complete || saveDir != loadDir {
		// First run today; write a full snapshot so the newest folder is
		// always self-contained.
		s.saveLocked()
	}
	return nil
}

// Save writes a full snapshot of the catalogue to today's folder and
// reports whether it succeeded.
func (s *Session) Save() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// LastOutcome reports how the most recent save ended, or OutcomeNone when
// no save has been attempted.
func (s *Session) LastOutcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutcome
}

func (s *Session) saveLocked() bool {
	snap, err := s.snapshot()
	if err != nil {
		s.log.Error("collecting snapshot", zap.Error(err))
		s.lastOutcome = OutcomeFailed
		return false
	}

	dir, err := s.backups.ResolveSaveDir()
	if err != nil {
		s.log.Error("preparing today's folder", zap.Error(err))
		s.lastOutcome = OutcomeFailed
		return false
	}
	if err := s.backups.SaveAll(dir, snap); err != nil {
		s.log.Error("writing backup", zap.String("dir", dir), zap.Error(err))
		s.lastOutcome = OutcomeFailed
		return false
	}

	s.lastOutcome = OutcomeSaved
	return true
}

// snapshot collects every collection into value slices for the writer.
func (s *Session) snapshot() (backup.Snapshot, error) {
	comics, err := s.engine.Store().ListComicsByID()
	if err != nil {
		return backup.Snapshot{}, err
	}
	series, err := s.engine.Store().ListSeries()
	if err != nil {
		return backup.Snapshot{}, err
	}
	events, err := s.engine.Store().ListEvents()
	if err != nil {
		return backup.Snapshot{}, err
	}

	snap := backup.Snapshot{
		Comics: make([]types.Comic, len(comics)),
		Series: make([]types.Series, len(series)),
		Events: make([]types.Event, len(events)),
	}
	for i, c := range comics {
		snap.Comics[i] = *c
	}
	for i, sr := range series {
		snap.Series[i] = *sr
	}
	for i, ev := range events {
		snap.Events[i] = *ev
	}
	return snap, nil
}

// AddComic adds a comic through the engine and, when autosave is on, writes
// a snapshot.
func (s *Session) AddComic(draft types.Comic) (*types.Comic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.engine.AddComic(draft)
	if err != nil {
		return nil, err
	}
	s.autoSaveLocked()
	return c, nil
}

// DeleteComic removes a comic and its roll-up contributions and, when
// autosave is on, writes a snapshot.
func (s *Session) DeleteComic(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.RemoveComic(id); err != nil {
		return err
	}
	s.autoSaveLocked()
	return nil
}

// SetSeriesTotalIssues records the user-supplied total for a series.
func (s *Session) SetSeriesTotalIssues(key types.SeriesKey, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.SetSeriesTotalIssues(key, total); err != nil {
		return err
	}
	s.autoSaveLocked()
	return nil
}

// SetEventTotalIssues records the user-supplied total for an event.
func (s *Session) SetEventTotalIssues(name string, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.SetEventTotalIssues(name, total); err != nil {
		return err
	}
	s.autoSaveLocked()
	return nil
}

// autoSaveLocked saves after a mutation when autosave is enabled. A failed
// autosave is logged and reflected in LastOutcome but does not undo the
// mutation.
func (s *Session) autoSaveLocked() {
	if !s.autoSave {
		return
	}
	s.saveLocked()
}

// Close releases the in-memory store.
func (s *Session) Close() error {
	return s.engine.Store().Close()
}
