// Package session holds the in-memory session store: TTL enforcement,
// capacity eviction, a background reaper, and atomic multi-field
// updates used by the conversation service.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jmokaya/mindscreen/internal/domain"
)

const (
	DefaultTTL          = 30 * time.Minute
	DefaultMaxSessions  = 1000
	DefaultReapInterval = 5 * time.Minute
)

// Mutation is applied to a session under its per-session lock. The
// session passed in is the live copy; the mutation must not retain it.
// Returning an error abandons the update without committing anything.
type Mutation func(s *domain.Session) error

type entry struct {
	mu      sync.Mutex
	session *domain.Session
}

// Store is a concurrency-safe in-memory session map. Reads return deep
// copies so callers never observe a session mid-mutation. Expiry is
// enforced at read time as well as by the background reaper, so a
// stopped reaper never resurrects stale sessions.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl     time.Duration
	maxSize int
	now     func() time.Time

	reapInterval time.Duration
	done         chan struct{}
	wg           sync.WaitGroup
	stopOnce     sync.Once
}

// StoreOption customizes a Store at construction time.
type StoreOption func(*Store)

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithMaxSessions(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

func WithReapInterval(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.reapInterval = d
		}
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore builds a Store and starts its background reaper.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		entries:      make(map[string]*entry),
		ttl:          DefaultTTL,
		maxSize:      DefaultMaxSessions,
		now:          time.Now,
		reapInterval: DefaultReapInterval,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.reapLoop()

	return s
}

func (s *Store) reapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if reaped := s.ReapExpired(); reaped > 0 {
				log.Info().Int("reaped", reaped).Msg("expired sessions removed")
			}
		case <-s.done:
			return
		}
	}
}

func (s *Store) expired(sess *domain.Session) bool {
	return s.now().Sub(sess.LastActivityAt) > s.ttl
}

// Create registers a new session and returns a copy of it. When the
// store is at capacity the session with the oldest CreatedAt is evicted
// first.
func (s *Store) Create(userName, country string) (*domain.Session, error) {
	now := s.now()
	sess := &domain.Session{
		ID:             uuid.New().String(),
		UserName:       userName,
		Country:        country,
		Phase:          domain.PhaseGreeting,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxSize {
		s.evictOldestLocked()
	}
	s.entries[sess.ID] = &entry{session: sess}

	return sess.Clone(), nil
}

// evictOldestLocked removes the session with the earliest CreatedAt.
// Caller holds s.mu. The entry lock is taken so an in-flight mutation
// finishes before the session disappears.
func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.session.CreatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.session.CreatedAt
		}
	}
	if oldestID != "" {
		e := s.entries[oldestID]
		e.mu.Lock()
		delete(s.entries, oldestID)
		e.mu.Unlock()
		log.Warn().Str("session_id", oldestID).Msg("session evicted at capacity")
	}
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	e.mu.Lock()
	if s.expired(e.session) {
		e.mu.Unlock()
		s.mu.Lock()
		// Recheck under the write lock; a concurrent Delete may have won.
		if cur, ok := s.entries[id]; ok && cur == e {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

// Get returns a deep copy of the session, refreshing its activity
// timestamp. Expired sessions are removed and reported as not found,
// indistinguishable from sessions that never existed.
func (s *Store) Get(id string) (*domain.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	e.session.LastActivityAt = s.now()
	return e.session.Clone(), nil
}

// Apply runs the mutation atomically under the session's lock and
// returns a copy of the resulting state. A mutation error leaves the
// session exactly as the mutation left it and skips the activity
// refresh, so abandoned updates must not mutate before failing.
func (s *Store) Apply(id string, fn Mutation) (*domain.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := fn(e.session); err != nil {
		return nil, err
	}
	e.session.LastActivityAt = s.now()
	return e.session.Clone(), nil
}

// AppendConversation atomically appends one transcript turn.
func (s *Store) AppendConversation(id, userMessage, aiMessage string, phase domain.Phase) error {
	_, err := s.Apply(id, func(cur *domain.Session) error {
		cur.History = append(cur.History, domain.ConversationTurn{
			UserMessage: userMessage,
			AIMessage:   aiMessage,
			Phase:       phase,
			CreatedAt:   s.now(),
		})
		return nil
	})
	return err
}

// AppendResponse atomically appends one scored answer.
func (s *Store) AppendResponse(id, questionID, rawText string, score int) error {
	_, err := s.Apply(id, func(cur *domain.Session) error {
		cur.Responses = append(cur.Responses, domain.Response{
			QuestionID: questionID,
			RawText:    rawText,
			Score:      score,
			CreatedAt:  s.now(),
		})
		return nil
	})
	return err
}

// Delete removes the session. Deleting an absent or expired session
// returns ErrSessionNotFound.
func (s *Store) Delete(id string) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Unlock()

	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// ReapExpired synchronously removes every expired session and returns
// how many were removed. Each entry lock is taken before the expiry
// check so the reaper never races a live update: a session refreshed
// concurrently stays, one mid-mutation is removed only after the
// mutation completes.
func (s *Store) ReapExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	for id, e := range s.entries {
		e.mu.Lock()
		if s.expired(e.session) {
			delete(s.entries, id)
			reaped++
		}
		e.mu.Unlock()
	}
	return reaped
}

// Count reports the number of live (unexpired) sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if !s.expired(e.session) {
			n++
		}
	}
	return n
}

// IDs returns live session ids sorted by CreatedAt, oldest first. Used
// by tests and the admin surface.
func (s *Store) IDs() []string {
	s.mu.RLock()
	type rec struct {
		id string
		at time.Time
	}
	recs := make([]rec, 0, len(s.entries))
	for id, e := range s.entries {
		if !s.expired(e.session) {
			recs = append(recs, rec{id: id, at: e.session.CreatedAt})
		}
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].at.Before(recs[j].at) })
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.id
	}
	return ids
}

// Shutdown stops the reaper and clears the store. Safe to call more
// than once.
func (s *Store) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()

	s.mu.Lock()
	s.entries = make(map[string]*entry)
	s.mu.Unlock()
}
