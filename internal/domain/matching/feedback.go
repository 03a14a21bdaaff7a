package matching

import "time"

// Default feedback windows. A correct check clears faster than a wrong one.
const (
	DefaultCorrectFeedback = 550 * time.Millisecond
	DefaultWrongFeedback   = 750 * time.Millisecond
)

// Timer is a pending scheduled call that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ClockScheduler schedules on the wall clock with time.AfterFunc.
type ClockScheduler struct{}

// AfterFunc implements Scheduler.
func (ClockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FeedbackWindows configures how long check feedback stays visible.
type FeedbackWindows struct {
	Correct time.Duration
	Wrong   time.Duration
}

// DefaultFeedbackWindows returns the standard 550ms/750ms windows.
func DefaultFeedbackWindows() FeedbackWindows {
	return FeedbackWindows{
		Correct: DefaultCorrectFeedback,
		Wrong:   DefaultWrongFeedback,
	}
}

// Feedback is the transient result of the last check. While it is pending
// the selection is locked. Each Show supersedes the previous one: the older
// timer is stopped and its expiry, should it still fire, is ignored because
// its generation is stale.
type Feedback struct {
	scheduler  Scheduler
	ids        []string
	correct    *bool
	generation uint64
	timer      Timer
}

// NewFeedback creates an empty Feedback that schedules expiry on s.
func NewFeedback(s Scheduler) *Feedback {
	if s == nil {
		s = ClockScheduler{}
	}
	return &Feedback{scheduler: s}
}

// Show displays a check result for ids and schedules expire to be called with
// the returned generation after d.
func (f *Feedback) Show(ids []string, correct bool, d time.Duration, expire func(generation uint64)) uint64 {
	f.cancel()

	f.generation++
	generation := f.generation
	f.ids = append([]string(nil), ids...)
	f.correct = &correct

	if expire != nil {
		f.timer = f.scheduler.AfterFunc(d, func() { expire(generation) })
	}
	return generation
}

// Expire clears the feedback if generation is still the current one.
// Returns false for stale or already cleared generations.
func (f *Feedback) Expire(generation uint64) bool {
	if generation != f.generation || !f.Pending() {
		return false
	}
	f.timer = nil
	f.ids = nil
	f.correct = nil
	return true
}

// Clear cancels any scheduled expiry and removes the feedback.
func (f *Feedback) Clear() {
	f.cancel()
	f.ids = nil
	f.correct = nil
}

// Pending reports whether a check result is on display.
func (f *Feedback) Pending() bool {
	return len(f.ids) > 0
}

// IDs returns the card IDs of the displayed check.
func (f *Feedback) IDs() []string {
	return append([]string(nil), f.ids...)
}

// Correct returns the displayed verdict, or nil when nothing is shown.
func (f *Feedback) Correct() *bool {
	if f.correct == nil {
		return nil
	}
	v := *f.correct
	return &v
}

// Generation returns the number of the most recent Show.
func (f *Feedback) Generation() uint64 {
	return f.generation
}

func (f *Feedback) cancel() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
