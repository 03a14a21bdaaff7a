package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/store"
)

// StoreSessionValidator checks sessions against the local database.
type StoreSessionValidator struct {
	Sessions store.SessionStore
}

var _ SessionValidator = (*StoreSessionValidator)(nil)

// ValidateSession implements SessionValidator.
func (v *StoreSessionValidator) ValidateSession(ctx context.Context, sessionID string) error {
	if _, err := v.Sessions.Get(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return err
	}
	return nil
}

// StoreAnswerReporter records answers in the local database.
type StoreAnswerReporter struct {
	Answers store.AnswerStore
}

var _ AnswerReporter = (*StoreAnswerReporter)(nil)

// ReportAnswer implements AnswerReporter.
func (r *StoreAnswerReporter) ReportAnswer(ctx context.Context, answer Answer) error {
	record, err := domain.NewAnswerRecord(answer.SessionID, answer.GameType, answer.IsCorrect, answer.Selected)
	if err != nil {
		return err
	}
	return r.Answers.Record(ctx, record)
}
