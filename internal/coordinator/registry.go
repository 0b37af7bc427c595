package coordinator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"vcrts/internal/store"
)

// Session is one live connection for a user.
type Session struct {
	User        store.User
	Token       string
	ConnectedAt time.Time
}

// Registry tracks at most one live session per user id. It exists only in
// memory; sessions die with the process.
type Registry struct {
	mu       sync.Mutex
	sessions map[int]Session
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int]Session)}
}

// Connect opens a session for the user. Fails if the user id already has
// one; there is no forced eviction and no timeout.
func (r *Registry) Connect(user store.User) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[user.ID]; ok {
		return Session{}, ErrAlreadyConnected
	}
	s := Session{
		User:        user,
		Token:       uuid.NewString(),
		ConnectedAt: time.Now(),
	}
	r.sessions[user.ID] = s
	return s, nil
}

// Disconnect closes the user's session.
func (r *Registry) Disconnect(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[userID]; !ok {
		return ErrNotConnected
	}
	delete(r.sessions, userID)
	return nil
}

// IsConnected reports whether the user has a live session.
func (r *Registry) IsConnected(userID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[userID]
	return ok
}

// ConnectedUsers returns a snapshot copy of the connected users.
func (r *Registry) ConnectedUsers() []store.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]store.User, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.User)
	}
	return out
}
