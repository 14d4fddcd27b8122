package daemon

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vtinadev/leoplay/internal/effects"
	"github.com/vtinadev/leoplay/internal/engine"
)

// ErrSessionNotFound is returned when a session ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

// PlaySession is one active playthrough: a progression controller plus the
// effect buffer its commands drain through on API responses.
type PlaySession struct {
	ID         string
	Level      string
	Stage      int
	CreatedAt  time.Time
	Controller *engine.Controller
	Buffer     *effects.Buffer
}

// sessionRegistry holds active play sessions keyed by ID.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*PlaySession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*PlaySession)}
}

// NewSessionID returns a fresh session identifier. Allocated before the
// controller so the effects publisher can stamp events with it.
func NewSessionID() string {
	return uuid.New().String()
}

// Add registers a new session under the given ID.
func (r *sessionRegistry) Add(id, level string, stage int, controller *engine.Controller, buffer *effects.Buffer) *PlaySession {
	sess := &PlaySession{
		ID:         id,
		Level:      level,
		Stage:      stage,
		CreatedAt:  time.Now().UTC(),
		Controller: controller,
		Buffer:     buffer,
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	return sess
}

// Get returns the session with the given ID.
func (r *sessionRegistry) Get(id string) (*PlaySession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove closes and removes the session with the given ID.
func (r *sessionRegistry) Remove(id string) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.Controller.Close()
	return nil
}

// Count returns the number of active sessions.
func (r *sessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every session. Used at shutdown.
func (r *sessionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, sess := range r.sessions {
		sess.Controller.Close()
		delete(r.sessions, id)
	}
}
