package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskQueue is a bounded channel of tasks. Producers never wait on it: when
// the buffer is full the task is refused and counted as dropped.
type TaskQueue struct {
	mu      sync.RWMutex
	tasks   chan Task
	closed  bool
	dropped atomic.Int64
	logger  *slog.Logger
}

var (
	_ TaskQueueReader = (*TaskQueue)(nil)
	_ TaskQueueWriter = (*TaskQueue)(nil)
)

// NewTaskQueue creates a queue holding up to size tasks.
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	if size < 0 {
		size = 0
	}
	return &TaskQueue{
		tasks:  make(chan Task, size),
		logger: logger.With("component", "task_queue"),
	}
}

// Enqueue implements TaskQueueWriter.
func (q *TaskQueue) Enqueue(task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.logger.Debug("task enqueued",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"queue_len", len(q.tasks))
		return nil
	default:
		q.dropped.Add(1)
		return fmt.Errorf("%w: capacity %d", ErrQueueFull, cap(q.tasks))
	}
}

// Close stops intake. Tasks already queued stay readable until drained.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
	q.logger.Info("task queue closed",
		"pending", len(q.tasks),
		"dropped_total", q.dropped.Load())
}

// GetChannel implements TaskQueueReader.
func (q *TaskQueue) GetChannel() <-chan Task {
	return q.tasks
}

// Len is the number of tasks waiting for a worker.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// Dropped is the number of tasks refused because the queue was full or
// closed.
func (q *TaskQueue) Dropped() int64 {
	return q.dropped.Load()
}
