package room

import (
	"time"
)

// pendingMatch is the countdown between enough ready votes and the deal
type pendingMatch struct {
	Start time.Time `json:"start"`
	timer *time.Timer
}

func newPendingMatch(delay time.Duration, fn func()) *pendingMatch {
	return &pendingMatch{
		Start: time.Now().Add(delay),
		timer: time.AfterFunc(delay, fn),
	}
}

func (p *pendingMatch) cancel() {
	p.timer.Stop()
}
