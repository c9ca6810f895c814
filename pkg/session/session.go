// Package session keeps the editor sessions of the HTTP editor service.
//
// Each browser tab that opens a floor gets a session: its own
// [workspace.Workspace], its own notices, and a lock that serializes the
// pointer events it sends. Sessions hold live scene objects, so the store
// is in memory. A session that sees no request for its TTL expires, and
// expiry closes its workspace so in-flight loads stop.
//
// # Usage
//
//	store := session.NewStore(session.DefaultTTL)
//	sess := session.New(ws, notice.NewRecorder())
//	store.Add(sess)
//
//	sess, err := store.Get(id)
//	if err != nil {
//	    // not found or expired
//	}
//	sess.Lock()
//	defer sess.Unlock()
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/notice"
	"github.com/matzehuels/seatmap/pkg/workspace"
)

// Sentinel errors for session lookups.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errs.New(errs.ErrCodeNotFound, "editor session not found")

	// ErrExpired is returned when a session has been idle past its TTL.
	ErrExpired = errs.New(errs.ErrCodeNotFound, "editor session expired")
)

// DefaultTTL is how long an idle session lives.
const DefaultTTL = 30 * time.Minute

// Session is one editor session. Lock it around every use of Workspace
// or the mounted scene.
type Session struct {
	sync.Mutex

	ID        string
	Workspace *workspace.Workspace
	Notices   *notice.Recorder
	CreatedAt time.Time

	lastUsed time.Time
}

// New creates a session with a fresh id.
func New(ws *workspace.Workspace, notices *notice.Recorder) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Workspace: ws,
		Notices:   notices,
		CreatedAt: now,
		lastUsed:  now,
	}
}

// Store holds sessions in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore returns an empty store. A non-positive ttl selects DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, sessions: make(map[string]*Session), now: time.Now}
}

// Add stores s.
func (st *Store) Add(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s.lastUsed = st.now()
	st.sessions[s.ID] = s
}

// Get returns the session with id and marks it used. An expired session is
// removed and closed.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := st.now()
	if now.Sub(s.lastUsed) > st.ttl {
		st.evictLocked(s)
		return nil, ErrExpired
	}
	s.lastUsed = now
	return s, nil
}

// Delete removes and closes the session with id. It reports whether one
// existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if ok {
		st.evictLocked(s)
	}
	return ok
}

// Cleanup removes every expired session and returns how many it removed.
func (st *Store) Cleanup() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	n := 0
	for _, s := range st.sessions {
		if now.Sub(s.lastUsed) > st.ttl {
			st.evictLocked(s)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Close removes and closes every session.
func (st *Store) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, s := range st.sessions {
		st.evictLocked(s)
	}
}

func (st *Store) evictLocked(s *Session) {
	delete(st.sessions, s.ID)
	if s.Workspace != nil {
		s.Workspace.Close()
	}
}
