package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"stillhouse/domain"
	"stillhouse/pkg/realtime"

	"go.uber.org/zap"
)

type (
	// Session is the server-side state of one sign-in: its open snapshot
	// subscriptions and the last snapshot seen per collection. ExpiresAt is
	// the expiry of the token that opened it; the zero value never expires.
	Session struct {
		ID        string
		UserID    string
		OpenedAt  time.Time
		ExpiresAt time.Time

		broker *realtime.Broker

		mu        sync.Mutex
		closed    bool
		subs      map[*realtime.Subscription]struct{}
		snapshots map[string]realtime.Snapshot
	}

	Manager struct {
		mu       sync.Mutex
		sessions map[string]*Session
		broker   *realtime.Broker
		logger   *zap.Logger
		now      func() time.Time
	}
)

func NewManager(broker *realtime.Broker, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		broker:   broker,
		logger:   logger,
		now:      time.Now,
	}
}

// Open starts a session after a successful sign-in. Opening an id that is
// already live returns the existing session.
func (m *Manager) Open(sessionID, userID string, expiresAt time.Time) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		return s
	}
	s := &Session{
		ID:        sessionID,
		UserID:    userID,
		OpenedAt:  m.now(),
		ExpiresAt: expiresAt,
		broker:    m.broker,
		subs:      make(map[*realtime.Subscription]struct{}),
		snapshots: make(map[string]realtime.Snapshot),
	}
	m.sessions[sessionID] = s
	m.logger.Debug("session opened", zap.String("session_id", sessionID), zap.String("user_id", userID))
	return s
}

// Get returns a live session. A session whose token has expired is closed
// and reported as missing.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok && s.expired(m.now()) {
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		s.teardown()
		return nil, false
	}
	m.mu.Unlock()
	return s, ok
}

// Reap closes every session whose token has expired and returns how many
// were closed.
func (m *Manager) Reap() int {
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.expired(now) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.teardown()
	}
	return len(expired)
}

// Run reaps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Reap(); n > 0 {
				m.logger.Debug("expired sessions closed", zap.Int("count", n))
			}
		}
	}
}

// Close tears the session down: every subscription is cancelled and cached
// snapshots are dropped. Closing an unknown id is a no-op.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.teardown()
	m.logger.Debug("session closed", zap.String("session_id", sessionID))
}

// CloseAll is used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.teardown()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (s *Session) Subscribe(ctx context.Context, collection string) (*realtime.Subscription, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	s.mu.Unlock()

	sub, err := s.broker.Subscribe(ctx, s.UserID, collection)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// the session may have been closed while the first snapshot loaded
	if s.closed {
		sub.Cancel()
		return nil, domain.ErrSessionClosed
	}
	s.subs[sub] = struct{}{}
	return sub, nil
}

// Release cancels one subscription, e.g. when its stream disconnects.
func (s *Session) Release(sub *realtime.Subscription) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
	sub.Cancel()
}

// Remember caches the latest snapshot seen for its collection.
func (s *Session) Remember(snap realtime.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.snapshots[snap.Collection] = snap
}

func (s *Session) Snapshot(collection string) (realtime.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[collection]
	return snap, ok
}

func (s *Session) Describe() domain.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make([]string, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub.Collection())
	}
	cached := make([]string, 0, len(s.snapshots))
	for collection := range s.snapshots {
		cached = append(cached, collection)
	}
	sort.Strings(subs)
	sort.Strings(cached)

	return domain.SessionResponse{
		SessionID:     s.ID,
		UserID:        s.UserID,
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
		Subscriptions: subs,
		Cached:        cached,
	}
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) teardown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = make(map[*realtime.Subscription]struct{})
	s.snapshots = make(map[string]realtime.Snapshot)
	s.mu.Unlock()

	for sub := range subs {
		sub.Cancel()
	}
}
