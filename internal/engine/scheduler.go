package engine

import "time"

// DefaultAdvanceDelay is how long a correct answer stays on screen before the
// controller moves to the next exercise.
const DefaultAdvanceDelay = 450 * time.Millisecond

// CancelFunc stops a scheduled call before it fires. Calling it after the
// call has fired is a no-op.
type CancelFunc func()

// ScheduleFunc runs fn after d. The timer-based default is replaced in tests
// with a fake that captures fn, so auto-advance can be fired deterministically.
type ScheduleFunc func(d time.Duration, fn func()) CancelFunc

func scheduleAfter(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
