package session

import (
	"time"

	"afmdash/domain/feed"
)

// loadingTracker is the idle/loading state machine of curve requests. At most
// one timer is armed at a time; every exit from loading stops it. Not safe for
// concurrent use: the controller guards it with its own lock.
type loadingTracker struct {
	timeout     time.Duration
	phase       feed.Phase
	lastOutcome feed.Outcome
	timer       *time.Timer
	seq         uint64
}

func newLoadingTracker(timeout time.Duration) *loadingTracker {
	return &loadingTracker{timeout: timeout, phase: feed.PhaseIdle}
}

// start enters loading and arms a fresh timeout. onTimeout receives the
// token of the arming so late firings of a superseded timer can be ignored.
func (l *loadingTracker) start(onTimeout func(token uint64)) {
	l.stopTimer()
	l.seq++
	token := l.seq
	l.phase = feed.PhaseLoading
	l.lastOutcome = feed.OutcomeNone
	l.timer = time.AfterFunc(l.timeout, func() { onTimeout(token) })
}

// finish leaves loading with outcome. It reports false when nothing was
// loading.
func (l *loadingTracker) finish(outcome feed.Outcome) bool {
	if l.phase != feed.PhaseLoading {
		return false
	}
	l.stopTimer()
	l.phase = feed.PhaseIdle
	l.lastOutcome = outcome
	return true
}

// current reports whether token belongs to the armed, still loading request
func (l *loadingTracker) current(token uint64) bool {
	return l.phase == feed.PhaseLoading && token == l.seq
}

func (l *loadingTracker) armed() bool {
	return l.timer != nil
}

func (l *loadingTracker) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
