package memory

import (
	"errors"
	"sync"
	"time"

	"food-consult-bot/pkg/store"

	"github.com/patrickmn/go-cache"
)

var (
	ErrAdmissionRejected = errors.New("session table is at capacity")
	ErrNoActiveSession   = errors.New("no active session for user")
)

// DefaultCapacity bounds the fan-out of concurrent storage and AI calls.
const DefaultCapacity = 3

// SessionRepository is the process-wide table of in-flight consult sessions.
// Sessions are copied on the way in and out, so callers never share state
// with the table; all mutation goes through Start, Mutate and Clear.
type SessionRepository struct {
	mu       sync.Mutex
	cache    *cache.Cache
	capacity int
}

// NewSessionRepository builds a table admitting at most capacity users. Entries
// untouched for ttl are dropped; ttl <= 0 disables the backstop expiry.
func NewSessionRepository(capacity int, ttl time.Duration) *SessionRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, ttl)
	} else {
		c = cache.New(cache.NoExpiration, 0)
	}

	return &SessionRepository{
		cache:    c,
		capacity: capacity,
	}
}

func (r *SessionRepository) Get(userID string) (*store.Session, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*store.Session).Clone(), true
	}
	return nil, false
}

// Start admits userID. An existing member gets its current session back
// unchanged; a new user is rejected without any mutation when the table is full.
func (r *SessionRepository) Start(userID, channelID string) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(userID); found {
		return x.(*store.Session).Clone(), nil
	}

	if len(r.cache.Items()) >= r.capacity {
		return nil, ErrAdmissionRejected
	}

	session := &store.Session{
		UserID:    userID,
		ChannelID: channelID,
		Stage:     store.StageStart,
		CreatedAt: time.Now(),
	}
	r.cache.Set(userID, session, cache.DefaultExpiration)

	return session.Clone(), nil
}

// Mutate applies fn to the user's session and stores the result atomically.
func (r *SessionRepository) Mutate(userID string, fn func(*store.Session)) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(userID)
	if !found {
		return nil, ErrNoActiveSession
	}

	session := x.(*store.Session).Clone()
	fn(session)
	r.cache.Set(userID, session, cache.DefaultExpiration)

	return session.Clone(), nil
}

// Clear removes the session. Clearing an absent session is a no-op.
func (r *SessionRepository) Clear(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(userID)
}

func (r *SessionRepository) Count() int {
	return len(r.cache.Items())
}

func (r *SessionRepository) Capacity() int {
	return r.capacity
}
