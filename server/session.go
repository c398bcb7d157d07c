package server

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/alphadose/haxmap"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Session is one browser's view: its own toggles and grid
type Session struct {
	ID       string
	Heatmap  *heatmap.Heatmap
	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen returns the time of the last request on this session
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Factory builds the heatmap for a new session
type Factory func() (*heatmap.Heatmap, error)

// SessionStore keeps in-memory sessions and evicts them by idle time and by
// count, oldest first
type SessionStore struct {
	sessions    *haxmap.Map[string, *Session]
	factory     Factory
	maxIdle     time.Duration
	maxSessions int
	clock       func() time.Time

	// serialises creation and eviction; lookups are lock free
	mu sync.Mutex
}

// NewSessionStore creates an empty store
func NewSessionStore(factory Factory, maxIdle time.Duration, maxSessions int) *SessionStore {
	return &SessionStore{
		sessions:    haxmap.New[string, *Session](64),
		factory:     factory,
		maxIdle:     maxIdle,
		maxSessions: maxSessions,
		clock:       time.Now,
	}
}

// Get returns a live session and marks it as seen
func (st *SessionStore) Get(id string) (*Session, bool) {
	s, ok := st.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s.touch(st.clock())
	return s, true
}

// Create starts a new session with a fresh heatmap
func (st *SessionStore) Create() (*Session, error) {
	h, err := st.factory()
	if err != nil {
		return nil, err
	}
	s := &Session{ID: uuid.NewString(), Heatmap: h}
	s.touch(st.clock())

	st.mu.Lock()
	st.sessions.Set(s.ID, s)
	st.enforceMax()
	st.mu.Unlock()

	log.WithField("session", s.ID).Debug("session created")
	return s, nil
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	return int(st.sessions.Len())
}

// DropOld removes sessions idle for longer than maxIdle and returns how
// many were removed
func (st *SessionStore) DropOld() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.clock().Add(-st.maxIdle)
	var expired []string
	st.sessions.ForEach(func(id string, s *Session) bool {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, id)
		}
		return true
	})
	if len(expired) > 0 {
		st.sessions.Del(expired...)
		log.WithField("count", len(expired)).Debug("expired idle sessions")
	}
	return len(expired)
}

// enforceMax drops the least recently seen sessions over the limit
func (st *SessionStore) enforceMax() {
	over := int(st.sessions.Len()) - st.maxSessions
	if st.maxSessions <= 0 || over <= 0 {
		return
	}
	all := make([]*Session, 0, st.sessions.Len())
	st.sessions.ForEach(func(_ string, s *Session) bool {
		all = append(all, s)
		return true
	})
	sort.Slice(all, func(i, j int) bool {
		return all[i].lastSeen.Load() < all[j].lastSeen.Load()
	})
	for i := 0; i < over && i < len(all); i++ {
		st.sessions.Del(all[i].ID)
	}
}

// Sweep runs DropOld every interval until ctx is done
func (st *SessionStore) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.DropOld()
		}
	}
}
