package haptics

import (
	"sync"
	"time"
)

// LockedDispatcher serialises access to a Dispatcher so it can be shared by
// goroutines such as HTTP handlers or host callbacks.
type LockedDispatcher struct {
	mu sync.Mutex
	d  *Dispatcher
}

// NewLockedDispatcher wraps d.
func NewLockedDispatcher(d *Dispatcher) *LockedDispatcher {
	return &LockedDispatcher{d: d}
}

func (l *LockedDispatcher) Initialize(leftPortID, rightPortID uint16) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.d.Initialize(leftPortID, rightPortID)
}

func (l *LockedDispatcher) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.d.Close()
}

func (l *LockedDispatcher) ApplyFeedback(req FeedbackRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.d.ApplyFeedback(req)
}

func (l *LockedDispatcher) Dispatch(req FeedbackRequest) []Hand {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.d.Dispatch(req)
}

func (l *LockedDispatcher) NextEligible(hand Hand, loc FeedbackLocation) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.d.NextEligible(hand, loc)
}

func (l *LockedDispatcher) Status() []HandStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.d.Status()
}
