package service

import (
	"sync"

	"github.com/frifster/yougene/internal/engine"
	"github.com/frifster/yougene/internal/game"
)

// session bundles one duel with its log and resolver. All mutation happens
// under mu, giving each session a single-writer discipline; operations on
// different sessions proceed in parallel.
type session struct {
	mu       sync.Mutex
	duel     *game.Duel
	log      *game.BattleLog
	resolver *engine.Resolver
}

// Store is the registry of live sessions. It is the only state shared across
// duels and is injected into the coordinator rather than held as a package
// global.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewStore returns an empty session registry.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

func (s *Store) create(id string, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *Store) get(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Count reports the number of live sessions, used by diagnostics.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
