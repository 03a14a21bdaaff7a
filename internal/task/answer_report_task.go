package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-match/internal/generation"
)

// DefaultReportTimeout bounds a single answer report.
const DefaultReportTimeout = 10 * time.Second

// Errors returned when building an AnswerReportTask
var (
	ErrNilReporter    = errors.New("answer reporter cannot be nil")
	ErrEmptySessionID = errors.New("session ID cannot be empty")
)

// answerReportPayload is the serialized form of the reported answer
type answerReportPayload struct {
	SessionID string   `json:"session_id"`
	GameType  string   `json:"game_type"`
	IsCorrect bool     `json:"is_correct"`
	Selected  []string `json:"selected"`
}

// AnswerReportTask delivers one checked answer to an AnswerReporter.
type AnswerReportTask struct {
	id       uuid.UUID
	answer   generation.Answer
	reporter generation.AnswerReporter
	timeout  time.Duration

	mu     sync.Mutex
	status TaskStatus
}

// NewAnswerReportTask creates a pending report task. A non-positive timeout
// uses DefaultReportTimeout.
func NewAnswerReportTask(
	reporter generation.AnswerReporter,
	answer generation.Answer,
	timeout time.Duration,
) (*AnswerReportTask, error) {
	if reporter == nil {
		return nil, ErrNilReporter
	}
	if answer.SessionID == "" {
		return nil, ErrEmptySessionID
	}
	if timeout <= 0 {
		timeout = DefaultReportTimeout
	}

	answer.Selected = append([]string(nil), answer.Selected...)
	return &AnswerReportTask{
		id:       uuid.New(),
		answer:   answer,
		reporter: reporter,
		timeout:  timeout,
		status:   TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *AnswerReportTask) ID() uuid.UUID {
	return t.id
}

// Type returns TaskTypeAnswerReport
func (t *AnswerReportTask) Type() string {
	return TaskTypeAnswerReport
}

// Payload returns the answer as JSON
func (t *AnswerReportTask) Payload() []byte {
	data, err := json.Marshal(answerReportPayload{
		SessionID: t.answer.SessionID,
		GameType:  t.answer.GameType,
		IsCorrect: t.answer.IsCorrect,
		Selected:  t.answer.Selected,
	})
	if err != nil {
		return []byte("{}")
	}
	return data
}

// Status returns the current task status
func (t *AnswerReportTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Execute sends the answer to the reporter.
func (t *AnswerReportTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := t.reporter.ReportAnswer(ctx, t.answer); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("report answer for session %s: %w", t.answer.SessionID, err)
	}

	t.setStatus(TaskStatusCompleted)
	return nil
}

func (t *AnswerReportTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}
