package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/generation"
)

// MockRoundGenerator implements generation.RoundGenerator for testing
type MockRoundGenerator struct {
	// GenerateRoundsFn allows test cases to mock the GenerateRounds behavior
	GenerateRoundsFn func(ctx context.Context, req generation.Request) ([]domain.Round, error)

	// Default response values
	Rounds []domain.Round
	Err    error

	mu       sync.Mutex
	requests []generation.Request
}

// GenerateRounds implements the generation.RoundGenerator interface
func (m *MockRoundGenerator) GenerateRounds(
	ctx context.Context,
	req generation.Request,
) ([]domain.Round, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateRoundsFn != nil {
		return m.GenerateRoundsFn(ctx, req)
	}
	return m.Rounds, m.Err
}

// Requests returns a copy of every request received so far.
func (m *MockRoundGenerator) Requests() []generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.Request(nil), m.requests...)
}

// CallCount returns the number of GenerateRounds calls.
func (m *MockRoundGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// MockAnswerReporter implements generation.AnswerReporter for testing
type MockAnswerReporter struct {
	// ReportAnswerFn allows test cases to mock the ReportAnswer behavior
	ReportAnswerFn func(ctx context.Context, answer generation.Answer) error

	Err error

	mu      sync.Mutex
	answers []generation.Answer
}

// ReportAnswer implements the generation.AnswerReporter interface
func (m *MockAnswerReporter) ReportAnswer(ctx context.Context, answer generation.Answer) error {
	m.mu.Lock()
	m.answers = append(m.answers, answer)
	m.mu.Unlock()

	if m.ReportAnswerFn != nil {
		return m.ReportAnswerFn(ctx, answer)
	}
	return m.Err
}

// Answers returns a copy of every answer reported so far.
func (m *MockAnswerReporter) Answers() []generation.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.Answer(nil), m.answers...)
}

// MockSessionValidator implements generation.SessionValidator for testing
type MockSessionValidator struct {
	// ValidateSessionFn allows test cases to mock the ValidateSession behavior
	ValidateSessionFn func(ctx context.Context, sessionID string) error

	Err error

	mu    sync.Mutex
	calls []string
}

// ValidateSession implements the generation.SessionValidator interface
func (m *MockSessionValidator) ValidateSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	m.calls = append(m.calls, sessionID)
	m.mu.Unlock()

	if m.ValidateSessionFn != nil {
		return m.ValidateSessionFn(ctx, sessionID)
	}
	return m.Err
}

// Calls returns the session IDs validated so far.
func (m *MockSessionValidator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
