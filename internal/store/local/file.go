// Package local is the last-resort record store: one JSON array file per
// record kind. Filesystem and parse failures are logged and converted to
// empty or false results, never returned, so a degraded write path cannot
// itself fail a request.
package local

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"selam/internal/utils"

	"github.com/sirupsen/logrus"
)

type Store[T any, P any] struct {
	path   string
	kind   string
	logger *logrus.Logger

	// serializes the read-modify-write of the whole file within this process
	mu sync.Mutex
}

func New[T any, P any](dataDir, kind string, logger *logrus.Logger) *Store[T, P] {
	return &Store[T, P]{
		path:   filepath.Join(dataDir, kind+".json"),
		kind:   kind,
		logger: logger,
	}
}

// ReadAll returns every record in the file, newest first, deduplicated by
// id. A missing or unparseable file yields an empty list.
func (s *Store[T, P]) ReadAll() []*T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Append rewrites the file with the record added. Reports whether the
// write landed.
func (s *Store[T, P]) Append(record *T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	records = append(records, record)
	return s.writeLocked(records)
}

// Update merges the patch into the record with the given id and rewrites
// the file. Returns false when the record is absent or the write fails.
func (s *Store[T, P]) Update(id string, patch P) (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	for i, record := range records {
		if recordID(record) != id {
			continue
		}

		merged, err := mergePatch(record, patch)
		if err != nil {
			s.logger.WithError(err).WithField("kind", s.kind).Warn("local store merge failed")
			return nil, false
		}

		records[i] = merged
		if !s.writeLocked(records) {
			return nil, false
		}
		return merged, true
	}

	return nil, false
}

// Remove splices the record with the given id out of the file. Returns
// whether a record was actually removed.
func (s *Store[T, P]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	for i, record := range records {
		if recordID(record) == id {
			records = append(records[:i], records[i+1:]...)
			return s.writeLocked(records)
		}
	}

	return false
}

func (s *Store[T, P]) readLocked() []*T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("kind", s.kind).Warn("local store read failed")
		}
		return []*T{}
	}

	var records []*T
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.WithError(err).WithField("kind", s.kind).Warn("local store file unparseable")
		return []*T{}
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]*T, 0, len(records))
	for _, record := range records {
		id := recordID(record)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, record)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]) > createdAt(out[j])
	})

	return out
}

// writeLocked rewrites the whole file through a temp file and rename so a
// failed write cannot leave the file unparseable.
func (s *Store[T, P]) writeLocked(records []*T) bool {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.logger.WithError(err).WithField("kind", s.kind).Warn("local store marshal failed")
		return false
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.WithError(err).WithField("kind", s.kind).Warn("local store mkdir failed")
		return false
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+s.kind+"-*")
	if err != nil {
		s.logger.WithError(err).WithField("kind", s.kind).Warn("local store temp file failed")
		return false
	}

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmp.Name())
		s.logger.WithField("kind", s.kind).Warn("local store write failed")
		return false
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		s.logger.WithError(err).WithField("kind", s.kind).Warn("local store rename failed")
		return false
	}

	return true
}

func mergePatch[T any, P any](record *T, patch P) (*T, error) {
	fields, err := utils.RecordToMap(record)
	if err != nil {
		return nil, err
	}

	for key, value := range utils.PatchToMap(patch, "json") {
		fields[key] = value
	}
	fields["updatedAt"] = time.Now().UTC()

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	merged := new(T)
	if err := json.Unmarshal(raw, merged); err != nil {
		return nil, err
	}

	return merged, nil
}

func recordID(record any) string {
	fields, err := utils.RecordToMap(record)
	if err != nil {
		return ""
	}
	id, _ := fields["id"].(string)
	return id
}

// createdAt returns the record's createdAt as its RFC 3339 string form,
// which sorts the same as the underlying time.
func createdAt(record any) string {
	fields, err := utils.RecordToMap(record)
	if err != nil {
		return ""
	}
	ts, _ := fields["createdAt"].(string)
	return ts
}
