package store

import (
	"errors"
	"sync"
	"time"

	"murmur/agent/internal/interrupt"
	"murmur/agent/internal/types"
)

var ErrSessionExists = errors.New("session already exists")

// Store holds sessions, their event streams, and the per-session
// filter engine. One engine per session keeps engine state (phrase
// set, counters) from bleeding across conversations.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*types.Session
	events    map[string][]types.Event
	engines   map[string]*interrupt.Engine
	maxEvents int
}

func New(maxEventsPerSession int) *Store {
	if maxEventsPerSession <= 0 {
		maxEventsPerSession = 200
	}
	return &Store{
		sessions:  make(map[string]*types.Session),
		events:    make(map[string][]types.Event),
		engines:   make(map[string]*interrupt.Engine),
		maxEvents: maxEventsPerSession,
	}
}

func (s *Store) CreateSession(sess *types.Session, eng *interrupt.Engine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return ErrSessionExists
	}
	s.sessions[sess.ID] = sess
	s.events[sess.ID] = []types.Event{}
	s.engines[sess.ID] = eng
	return nil
}

func (s *Store) GetSession(id string) *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Engine returns the session's filter engine, or nil for unknown
// sessions. The engine serializes its own mutations.
func (s *Store) Engine(id string) *interrupt.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engines[id]
}

func (s *Store) AppendEvent(sessionID, typ string, payload map[string]any) types.Event {
	evt := types.Event{Type: typ, Ts: time.Now().UTC(), Payload: payload}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[sessionID] = append(s.events[sessionID], evt)
	// Cap per-session events to avoid unbounded growth
	if l := len(s.events[sessionID]); l > s.maxEvents {
		// Keep space for a single truncation warning so the total stays at the cap
		keep := s.maxEvents - 1
		dropped := l - keep
		s.events[sessionID] = append([]types.Event(nil), s.events[sessionID][l-keep:]...)
		warn := types.Event{Type: "events_truncated", Ts: time.Now().UTC(), Payload: map[string]any{"session_id": sessionID, "dropped": dropped, "kept": keep}}
		s.events[sessionID] = append(s.events[sessionID], warn)
	}
	return evt
}

func (s *Store) ListEvents(sessionID string) []types.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.events[sessionID]
	out := make([]types.Event, len(src))
	copy(out, src)
	return out
}

func (s *Store) SetStatus(sessionID, status string) {
	s.mu.Lock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.Status = status
	}
	s.mu.Unlock()
}

func (s *Store) ListSessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	return out
}
