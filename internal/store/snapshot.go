package store

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/seenimoa/filingwatch/pkg/models"
)

// SnapshotStore keeps the most recent holdings snapshot per filer.
// Only the latest snapshot is retained; each upsert replaces the previous
// quarter's entry for that filer.
type SnapshotStore struct {
	path      string
	snapshots map[string]models.HoldingsSnapshot
}

// LoadSnapshots reads the snapshot-cache file. Same fail-soft contract as
// LoadSeen: missing or corrupt files yield an empty store.
func LoadSnapshots(path string) *SnapshotStore {
	s := &SnapshotStore{path: path, snapshots: make(map[string]models.HoldingsSnapshot)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("file", path).Warn("snapshot cache unreadable, starting empty")
		}
		return s
	}

	if err := json.Unmarshal(data, &s.snapshots); err != nil {
		log.WithError(err).WithField("file", path).Warn("snapshot cache corrupt, starting empty")
		s.snapshots = make(map[string]models.HoldingsSnapshot)
	}
	return s
}

// Get returns the stored snapshot for a filer. Absence means "no prior
// snapshot" — the differ then classifies every current position as new.
func (s *SnapshotStore) Get(filer string) (models.HoldingsSnapshot, bool) {
	snap, ok := s.snapshots[filer]
	return snap, ok
}

// Upsert replaces the stored snapshot for a filer.
func (s *SnapshotStore) Upsert(filer string, snap models.HoldingsSnapshot) {
	s.snapshots[filer] = snap
}

// Len returns the number of filers with a stored snapshot.
func (s *SnapshotStore) Len() int { return len(s.snapshots) }

// Save atomically persists all snapshots. Called immediately after each
// successful diff-and-notify rather than batched at cycle end, so a later
// crash never re-diffs an already-alerted filer against stale data.
func (s *SnapshotStore) Save() error {
	data, err := json.Marshal(s.snapshots)
	if err != nil {
		return fmt.Errorf("marshal snapshot cache: %w", err)
	}
	return atomicWrite(s.path, data)
}
