package playable

import "time"

// Scheduler runs fn once after the delay
// The returned function cancels the task, returning false if it already ran
type Scheduler func(delay time.Duration, fn func()) (cancel func() bool)

// TimerScheduler schedules with time.AfterFunc
func TimerScheduler(delay time.Duration, fn func()) func() bool {
	return time.AfterFunc(delay, fn).Stop
}
