package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskStatus is where a task is in its life: queued, running or done.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskTypeAnswerReport delivers one checked answer to the answer reporter.
const TaskTypeAnswerReport = "answer_report"

// Task is a unit of fire-and-forget work. A failed task is reported to the
// pool's error handler and never retried.
type Task interface {
	ID() uuid.UUID
	Type() string

	// Payload is a JSON description of the task for logs.
	Payload() []byte

	Status() TaskStatus

	// Execute runs the task. ctx is cancelled when the pool stops.
	Execute(ctx context.Context) error
}

// TaskQueueReader is the consumer side of a queue.
type TaskQueueReader interface {
	// GetChannel is closed once the queue is closed and drained.
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producer side of a queue. Enqueue never blocks:
// a full or closed queue is an error and the task is dropped.
type TaskQueueWriter interface {
	Enqueue(task Task) error
	Close()
}
