// Package jsonl persists run history as an append-only JSONL file with an
// in-memory read cache, size-based rotation, and filtered querying.
package jsonl

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/openclaw/openclaw/internal/core/runlog"
)

const (
	// DefaultMaxEntries caps how many entries the read cache retains.
	DefaultMaxEntries = 1000
	// DefaultRotateBytes is the on-disk size past which the log is halved.
	DefaultRotateBytes = 5 * 1024 * 1024
)

// HistoryStore is an append-only run log backed by a JSONL file.
//
// Writes never surface errors: recording history must not abort the command
// pipeline it instruments, so every I/O failure is swallowed and reported
// only to the store's logger. The cache moves between two states, unloaded
// and loaded; rotation and Clear transition it back to unloaded.
type HistoryStore struct {
	path        string
	maxEntries  int
	rotateBytes int64
	log         zerolog.Logger

	mu      sync.Mutex
	loaded  bool
	entries []runlog.Entry
}

// Option configures a HistoryStore.
type Option func(*HistoryStore)

// WithMaxEntries sets the in-memory cache cap.
func WithMaxEntries(n int) Option {
	return func(s *HistoryStore) { s.maxEntries = n }
}

// WithRotateBytes sets the file size threshold that triggers rotation.
func WithRotateBytes(n int64) Option {
	return func(s *HistoryStore) { s.rotateBytes = n }
}

// WithLogger sets the diagnostic sink for swallowed I/O failures.
func WithLogger(log zerolog.Logger) Option {
	return func(s *HistoryStore) { s.log = log }
}

// NewHistoryStore creates a run-history store persisting to path. The file
// and its parent directory are created lazily on first append.
func NewHistoryStore(path string, opts ...Option) *HistoryStore {
	s := &HistoryStore{
		path:        path,
		maxEntries:  DefaultMaxEntries,
		rotateBytes: DefaultRotateBytes,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records one entry: one JSON line appended to the log file, the
// cache updated in place when loaded, and a rotation pass when the file has
// grown past the threshold. Append never fails from the caller's point of
// view; any I/O error is logged and dropped.
func (s *HistoryStore) Append(entry runlog.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := json.Marshal(entry)
	if err != nil {
		s.log.Warn().Err(err).Str("id", entry.ID).Msg("encode run entry")
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Warn().Err(err).Msg("create run history dir")
		return
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Warn().Err(err).Msg("open run history file")
		return
	}
	_, werr := f.Write(append(line, '\n'))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		s.log.Warn().AnErr("write", werr).AnErr("close", cerr).Msg("append run entry")
		return
	}

	// Keep a loaded cache in sync without re-reading the file.
	if s.loaded {
		s.entries = append(s.entries, entry)
		if len(s.entries) > s.maxEntries {
			s.entries = s.entries[len(s.entries)-s.maxEntries:]
		}
	}

	info, err := os.Stat(s.path)
	if err != nil {
		s.log.Warn().Err(err).Msg("stat run history file")
		return
	}
	if info.Size() > s.rotateBytes {
		s.rotate()
	}
}

// Query returns entries matching q, newest-arrival-first, at most q.Limit
// entries (default 20). An empty result is valid, never an error.
func (s *HistoryStore) Query(q runlog.Query) []runlog.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.load()

	if q.Status != "" {
		matched = filter(matched, func(e runlog.Entry) bool { return e.Status == q.Status })
	}
	if q.Search != "" {
		matched = filter(matched, func(e runlog.Entry) bool { return e.MatchesSearch(q.Search) })
	}
	if q.Since > 0 {
		matched = filter(matched, func(e runlog.Entry) bool { return e.StartedAt >= q.Since })
	}
	if q.Scope != "" {
		matched = filter(matched, func(e runlog.Entry) bool { return e.ScopeKey == q.Scope })
	}

	limit := q.Limit
	if limit <= 0 {
		limit = runlog.DefaultQueryLimit
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	// Cache is stored oldest-first; results are newest-first.
	out := make([]runlog.Entry, len(matched))
	for i, e := range matched {
		out[len(out)-1-i] = e
	}
	return out
}

// Get returns the entry with the given id, or runlog.ErrNotFound. Lookup is
// a linear scan; ids are expected unique but not enforced, first match wins.
func (s *HistoryStore) Get(id string) (runlog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.load() {
		if e.ID == id {
			return e, nil
		}
	}
	return runlog.Entry{}, runlog.ErrNotFound
}

// Stats returns counts of cached entries by status.
func (s *HistoryStore) Stats() runlog.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats runlog.Stats
	for _, e := range s.load() {
		stats.TotalRuns++
		switch e.Status {
		case runlog.StatusCompleted:
			stats.Completed++
		case runlog.StatusFailed:
			stats.Failed++
		case runlog.StatusKilled:
			stats.Killed++
		}
	}
	return stats
}

// Clear removes the log file and unloads the cache. A missing file is not an
// error; any other removal failure is logged and dropped. Clear is
// idempotent.
func (s *HistoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Msg("remove run history file")
	}
	s.loaded = false
	s.entries = nil
}

// load returns the cached entries, reading the file on first access.
// Oldest-first. Missing file yields an empty (and cached) result; malformed
// lines are skipped so one torn write cannot poison the rest of the log.
// Must be called with mu held.
func (s *HistoryStore) load() []runlog.Entry {
	if s.loaded {
		return s.entries
	}

	s.loaded = true
	s.entries = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Msg("read run history file")
		}
		return s.entries
	}

	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var e runlog.Entry
		if err := json.Unmarshal(line, &e); err != nil {
			s.log.Debug().Err(err).Msg("skip malformed run history line")
			continue
		}
		s.entries = append(s.entries, e)
	}

	// Cap is applied at load time only; older entries stay on disk until
	// rotation but become invisible to queries.
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[len(s.entries)-s.maxEntries:]
	}

	return s.entries
}

// rotate halves the on-disk log, keeping the newest half, and unloads the
// cache so the next read reflects the rotated file. Best-effort: on any
// failure the log simply keeps growing until the next attempt.
// Must be called with mu held.
func (s *HistoryStore) rotate() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn().Err(err).Msg("read run history file for rotation")
		return
	}

	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	kept := lines[len(lines)/2:]

	out := append(bytes.Join(kept, []byte("\n")), '\n')
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		s.log.Warn().Err(err).Msg("write rotated run history file")
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Warn().Err(err).Msg("replace run history file")
		return
	}

	s.loaded = false
	s.entries = nil
	s.log.Debug().Int("kept", len(kept)).Int("dropped", len(lines)-len(kept)).Msg("rotated run history")
}

func filter(entries []runlog.Entry, keep func(runlog.Entry) bool) []runlog.Entry {
	var out []runlog.Entry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
