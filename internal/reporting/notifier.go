package reporting

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-match/internal/generation"
	"github.com/phrazzld/scry-match/internal/redact"
	"github.com/phrazzld/scry-match/internal/task"
)

// Outcome is the result of a best-effort notification.
type Outcome string

// Notification outcomes
const (
	// OutcomeSent means the answer was delivered, or accepted for delivery.
	OutcomeSent Outcome = "sent"
	// OutcomeFailedIgnored means delivery failed and the failure was dropped.
	OutcomeFailedIgnored Outcome = "failed_ignored"
)

// AnswerNotifier reports a checked answer without ever failing the caller.
type AnswerNotifier interface {
	Notify(ctx context.Context, answer generation.Answer) Outcome
}

// Notifier reports answers synchronously within the caller's goroutine.
type Notifier struct {
	reporter generation.AnswerReporter
	timeout  time.Duration
	logger   *slog.Logger
}

// NewNotifier creates a synchronous Notifier. A non-positive timeout uses
// task.DefaultReportTimeout.
func NewNotifier(reporter generation.AnswerReporter, timeout time.Duration, logger *slog.Logger) *Notifier {
	if timeout <= 0 {
		timeout = task.DefaultReportTimeout
	}
	return &Notifier{
		reporter: reporter,
		timeout:  timeout,
		logger:   logger.With("component", "answer_notifier"),
	}
}

// Notify implements AnswerNotifier.
func (n *Notifier) Notify(ctx context.Context, answer generation.Answer) Outcome {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	if err := n.reporter.ReportAnswer(ctx, answer); err != nil {
		n.logger.Debug("answer report failed, ignoring",
			"session_id", answer.SessionID,
			redact.Attr(err))
		return OutcomeFailedIgnored
	}
	return OutcomeSent
}

// AsyncNotifier hands answers to the background worker pool.
type AsyncNotifier struct {
	reporter generation.AnswerReporter
	queue    task.TaskQueueWriter
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAsyncNotifier creates an AsyncNotifier that enqueues report tasks on queue.
func NewAsyncNotifier(
	reporter generation.AnswerReporter,
	queue task.TaskQueueWriter,
	timeout time.Duration,
	logger *slog.Logger,
) *AsyncNotifier {
	return &AsyncNotifier{
		reporter: reporter,
		queue:    queue,
		timeout:  timeout,
		logger:   logger.With("component", "async_answer_notifier"),
	}
}

// Notify implements AnswerNotifier. OutcomeSent means the report was queued.
func (n *AsyncNotifier) Notify(ctx context.Context, answer generation.Answer) Outcome {
	t, err := task.NewAnswerReportTask(n.reporter, answer, n.timeout)
	if err != nil {
		n.logger.Debug("could not build answer report task", redact.Attr(err))
		return OutcomeFailedIgnored
	}

	if err := n.queue.Enqueue(t); err != nil {
		n.logger.Debug("answer report dropped",
			"session_id", answer.SessionID,
			redact.Attr(err))
		return OutcomeFailedIgnored
	}
	return OutcomeSent
}

// LogTaskError is a task.WorkerPool error handler that records failed
// reports at debug level.
func LogTaskError(logger *slog.Logger) func(task.Task, error) {
	return func(t task.Task, err error) {
		logger.Debug("background task failed, ignoring",
			"task_id", t.ID(),
			"task_type", t.Type(),
			redact.Attr(err))
	}
}
