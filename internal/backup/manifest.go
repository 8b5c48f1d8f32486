package backup

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestFile names the per-generation manifest.
const ManifestFile = "manifest.json"

// Manifest records what a backup generation contains. It is written after a
// successful save and is purely informational: loading never depends on it,
// and a missing or malformed manifest is ignored.
type Manifest struct {
	SnapshotID string    `json:"snapshot_id"`
	SavedAt    time.Time `json:"saved_at"`
	Comics     int       `json:"comics"`
	Series     int       `json:"series"`
	Events     int       `json:"events"`
}

// writeManifest records the snapshot just written into dir.
func (s *Store) writeManifest(dir string, snap Snapshot) error {
	m := Manifest{
		SnapshotID: newSnapshotID(),
		SavedAt:    s.now().UTC(),
		Comics:     len(snap.Comics),
		Series:     len(snap.Series),
		Events:     len(snap.Events),
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, ManifestFile), data)
}

// ReadManifest returns the manifest for a generation, or ok == false when
// it is missing or unreadable.
func (s *Store) ReadManifest(dir string) (Manifest, bool) {
	data, found, err := readFile(filepath.Join(dir, ManifestFile))
	if err != nil || !found {
		return Manifest{}, false
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, false
	}
	return m, true
}

// newSnapshotID generates a UUID v7 so manifests sort by creation time,
// falling back to v4 if v7 generation fails.
func newSnapshotID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
