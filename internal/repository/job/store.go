// Package job provides the in-memory deep-search job store. Each job key
// (one per client session) owns at most one record; all orchestrator writes
// go through CompareAndSwap so a superseded run can never clobber the state
// of the run that replaced it.
package job

import (
	"sync"

	"github.com/google/uuid"

	domjob "github.com/tanhanwei/steamseek/internal/domain/job"
)

// Store is a concurrency-safe table of job records keyed by job key.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*domjob.Record
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*domjob.Record)}
}

// Create replaces any record under key with a fresh Running record carrying
// a new session id, and returns a snapshot of it. Creating over an existing
// record is how a new job supersedes an old one: the old background task's
// session id stops matching and its writes are guarded out.
func (s *Store) Create(key, query string) domjob.Record {
	rec := &domjob.Record{
		SessionID:     uuid.NewString(),
		OriginalQuery: query,
		State:         domjob.Running,
		Progress:      0,
		CurrentStep:   "Initializing Deep Search",
	}

	s.mu.Lock()
	s.jobs[key] = rec
	s.mu.Unlock()

	return rec.Clone()
}

// Get returns a snapshot of the record under key. The snapshot is a deep
// copy; callers never observe later mutations and never block on a running
// orchestration.
func (s *Store) Get(key string) (domjob.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[key]
	if !ok {
		return domjob.Record{}, false
	}
	return rec.Clone(), true
}

// CompareAndSwap applies mutate to the record under key only if its session
// id still equals sessionID. Returns false, without mutating, when the key
// is absent or the record has been superseded. This is the stale-write
// guard: every orchestrator write goes through here.
func (s *Store) CompareAndSwap(key, sessionID string, mutate func(*domjob.Record)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[key]
	if !ok || rec.SessionID != sessionID {
		return false
	}
	mutate(rec)
	return true
}

// Invalidate removes the record under key. Any in-flight orchestration for
// that key abandons at its next guard check.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.jobs, key)
	s.mu.Unlock()
}
