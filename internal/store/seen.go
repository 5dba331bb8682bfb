// Package store persists pipeline state between polling cycles: the set of
// already-alerted fingerprints and the latest holdings snapshot per filer.
//
// Both stores share the same contract: loads fail soft (a missing or corrupt
// file yields empty state, never an error — re-alerting beats wedging the
// pipeline), and saves rewrite the whole file atomically via a temp file and
// rename so a crash can never leave a truncated state file behind.
//
// The stores do no locking; a cycle is single-threaded and cross-process
// concurrency is prevented by single-instance scheduling.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
)

// SeenSet is the set of fingerprints that have already been alerted.
// Grows monotonically: fingerprints are added, never removed.
type SeenSet struct {
	path  string
	seen  map[string]struct{}
	added int
}

// LoadSeen reads the seen-set file. Any read or parse error yields an empty
// set; load never fails.
func LoadSeen(path string) *SeenSet {
	s := &SeenSet{path: path, seen: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("file", path).Warn("seen-set unreadable, starting empty")
		}
		return s
	}

	var fingerprints []string
	if err := json.Unmarshal(data, &fingerprints); err != nil {
		log.WithError(err).WithField("file", path).Warn("seen-set corrupt, starting empty")
		return s
	}

	for _, fp := range fingerprints {
		s.seen[fp] = struct{}{}
	}
	return s
}

// Contains reports whether a fingerprint has already been alerted.
func (s *SeenSet) Contains(fingerprint string) bool {
	_, ok := s.seen[fingerprint]
	return ok
}

// Add records a fingerprint as alerted.
func (s *SeenSet) Add(fingerprint string) {
	if _, ok := s.seen[fingerprint]; !ok {
		s.seen[fingerprint] = struct{}{}
		s.added++
	}
}

// Len returns the number of tracked fingerprints.
func (s *SeenSet) Len() int { return len(s.seen) }

// Added returns the number of fingerprints added since load.
func (s *SeenSet) Added() int { return s.added }

// Save atomically persists the full set. Either the new file replaces the
// old one completely or the previous file is left intact.
func (s *SeenSet) Save() error {
	fingerprints := make([]string, 0, len(s.seen))
	for fp := range s.seen {
		fingerprints = append(fingerprints, fp)
	}
	sort.Strings(fingerprints)

	data, err := json.Marshal(fingerprints)
	if err != nil {
		return fmt.Errorf("marshal seen-set: %w", err)
	}
	return atomicWrite(s.path, data)
}

// atomicWrite writes data to a temp file in the target directory and renames
// it over path. Rename within one filesystem is atomic, so readers see
// either the old file or the complete new one.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s over %s: %w", tmpName, path, err)
	}
	return nil
}
