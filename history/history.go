// Package history keeps translation history per browser session, in memory
// only. Everything is lost on restart.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Record struct {
	ID                 uuid.UUID `json:"id"`
	Original           string    `json:"original"`
	Translated         string    `json:"translated"`
	TargetLanguageName string    `json:"targetLanguageName"`
	Date               time.Time `json:"date"`
}

func NewRecord(original, translated, targetLanguageName string, date time.Time) Record {
	return Record{
		ID:                 uuid.New(),
		Original:           original,
		Translated:         translated,
		TargetLanguageName: targetLanguageName,
		Date:               date,
	}
}

type Config struct {
	// 0 means unbounded.
	MaxRecords int
	// Sessions untouched for this long are dropped by Prune.
	IdleTTLMinutes time.Duration
}

// Screen is what the home screen showed after the last translation.
type Screen struct {
	Input    string
	Output   string
	Language string
}

type entry struct {
	records  []Record
	screen   Screen
	lastSeen time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	max      int
	now      func() time.Time
}

func NewStore(cfg Config) *Store {
	limit := cfg.MaxRecords
	if limit < 0 {
		limit = 0
	}
	return &Store{
		sessions: make(map[string]*entry),
		max:      limit,
		now:      time.Now,
	}
}

// touch must be called with s.mu held.
func (s *Store) touch(sessionID string) *entry {
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{}
		s.sessions[sessionID] = e
	}
	e.lastSeen = s.now()
	return e
}

// Add inserts rec at the front of the session's history.
func (s *Store) Add(sessionID string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.touch(sessionID)
	records := make([]Record, 0, len(e.records)+1)
	records = append(records, rec)
	records = append(records, e.records...)
	if s.max > 0 && len(records) > s.max {
		records = records[:s.max]
	}
	e.records = records
}

// List returns a copy of the session's history, newest first.
func (s *Store) List(sessionID string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return []Record{}
	}
	e.lastSeen = s.now()
	out := make([]Record, len(e.records))
	copy(out, e.records)
	return out
}

func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return 0
	}
	return len(e.records)
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.touch(sessionID)
	e.records = nil
}

func (s *Store) SetScreen(sessionID string, screen Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(sessionID).screen = screen
}

func (s *Store) Screen(sessionID string) Screen {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return Screen{}
	}
	return e.screen
}

// Drop forgets everything about the session.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
}

// Prune drops sessions not touched within ttl and returns how many were
// dropped. A non-positive ttl prunes nothing.
func (s *Store) Prune(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	n := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
