package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("booking: session not found")

type session struct {
	mu       sync.Mutex
	flow     *Flow
	lastSeen time.Time
}

// Registry holds in-flight checkout flows keyed by session ID. Sessions that
// go untouched for the TTL are reaped by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	logger   *logging.Logger
}

// NewRegistry creates a session registry with the given idle TTL.
func NewRegistry(ttl time.Duration, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{
		sessions: make(map[string]*session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Create registers a new flow and returns its session ID.
func (r *Registry) Create(flow *Flow) string {
	id := uuid.New().String()
	r.mu.Lock()
	r.sessions[id] = &session{flow: flow, lastSeen: time.Now()}
	r.mu.Unlock()
	return id
}

// Get returns the flow for a session ID, refreshing its idle timer.
func (r *Registry) Get(id string) (*Flow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Since(s.lastSeen) > r.ttl {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	s.lastSeen = time.Now()
	return s.flow, nil
}

// Do runs fn against the session's flow while holding the session lock, so
// concurrent requests against the same session are serialized.
func (r *Registry) Do(id string, fn func(*Flow) error) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok && time.Since(s.lastSeen) > r.ttl {
		delete(r.sessions, id)
		ok = false
	}
	if ok {
		s.lastSeen = time.Now()
	}
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.flow)
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle past the TTL and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if time.Since(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					r.logger.Debug("swept expired booking sessions", "count", n)
				}
			}
		}
	}()
}
