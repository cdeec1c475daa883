package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"lensfolio/api/models"
	"lensfolio/api/store"
)

type memEventStore struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent
	err    error
}

func (m *memEventStore) InsertEvent(_ context.Context, e *models.AnalyticsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *memEventStore) ListEvents(_ context.Context, since time.Time, kind models.EventKind) ([]models.AnalyticsEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AnalyticsEvent
	for _, e := range m.events {
		if e.Timestamp.Before(since) || (kind != "" && e.Event != kind) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type memSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*models.Session
	insertErr error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*models.Session)}
}

func (m *memSessionStore) GetSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionStore) InsertSession(_ context.Context, s *models.Session) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if _, ok := m.sessions[s.SessionID]; ok {
		return false, nil
	}
	cp := *s
	m.sessions[s.SessionID] = &cp
	return true, nil
}

func (m *memSessionStore) TouchSession(_ context.Context, id, page string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return store.ErrSessionNotFound
	}
	s.LastPage = page
	s.PageCount++
	if at.After(s.EndedAt) {
		s.EndedAt = at
	}
	return nil
}

func (m *memSessionStore) ListSessionsSince(_ context.Context, since time.Time) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Session
	for _, s := range m.sessions {
		if !s.StartedAt.Before(since) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// racingSessionStore reports "not found" once even though the row exists, the way a
// concurrent first page view would look.
type racingSessionStore struct {
	*memSessionStore
	raced bool
}

func (r *racingSessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if !r.raced {
		r.raced = true
		return nil, store.ErrSessionNotFound
	}
	return r.memSessionStore.GetSession(ctx, id)
}

var errStoreDown = errors.New("store unreachable")
