package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/store"
)

// MockSessionStore is an in-memory store.SessionStore.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.TutorSession

	// GetErr, when set, is returned by every Get call.
	GetErr error
}

var _ store.SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates a store seeded with sessions.
func NewMockSessionStore(sessions ...*domain.TutorSession) *MockSessionStore {
	m := &MockSessionStore{sessions: make(map[string]*domain.TutorSession)}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

// Get implements store.SessionStore.
func (m *MockSessionStore) Get(_ context.Context, id string) (*domain.TutorSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

// Put implements store.SessionStore.
func (m *MockSessionStore) Put(_ context.Context, s *domain.TutorSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.sessions[s.ID] = &copied
	return nil
}

// WithTx implements store.SessionStore.
func (m *MockSessionStore) WithTx(*sql.Tx) store.SessionStore {
	return m
}

// MockAnswerStore is an in-memory store.AnswerStore.
type MockAnswerStore struct {
	mu      sync.Mutex
	records []*domain.AnswerRecord

	// RecordErr, when set, is returned by every Record call.
	RecordErr error
}

var _ store.AnswerStore = (*MockAnswerStore)(nil)

// Record implements store.AnswerStore.
func (m *MockAnswerStore) Record(_ context.Context, a *domain.AnswerRecord) error {
	if err := a.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.records = append(m.records, a)
	return nil
}

// Stats implements store.AnswerStore.
func (m *MockAnswerStore) Stats(_ context.Context, sessionID string) (*domain.AnswerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.AnswerStats{SessionID: sessionID}
	for _, r := range m.records {
		if r.SessionID != sessionID {
			continue
		}
		stats.Total++
		if r.IsCorrect {
			stats.Correct++
		}
		stats.UpdatedAt = r.CreatedAt
	}
	if stats.Total == 0 {
		return nil, store.ErrStatsNotFound
	}
	return stats, nil
}

// Records returns a copy of the recorded answers.
func (m *MockAnswerStore) Records() []*domain.AnswerRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AnswerRecord(nil), m.records...)
}

// WithTx implements store.AnswerStore.
func (m *MockAnswerStore) WithTx(*sql.Tx) store.AnswerStore {
	return m
}
