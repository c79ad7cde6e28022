package haptics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockedDispatcher_ConcurrentDispatchSendsOnce(t *testing.T) {
	f := newFixture(t)
	l := NewLockedDispatcher(f.d)
	l.Initialize(1, 2)
	defer l.Close()

	req := FeedbackRequest{Hand: Left, Location: Middle, Strength: 1, Duration: 0.5}

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sent := l.Dispatch(req)
			mu.Lock()
			total += len(sent)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// The clock does not move, so only the first pulse clears the cooldown.
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, f.left.WriteCalls)
	assert.Zero(t, f.right.WriteCalls)
}

func TestLockedDispatcher_StatusAndNextEligible(t *testing.T) {
	f := newFixture(t)
	l := NewLockedDispatcher(f.d)
	l.Initialize(1, 2)

	l.ApplyFeedback(FeedbackRequest{Hand: Right, Location: Pinky, Strength: 1, Duration: 0.25})

	next, ok := l.NextEligible(Right, Pinky)
	assert.True(t, ok)
	assert.Equal(t, baseTime.Add(200*time.Millisecond), next)

	status := l.Status()
	assert.Len(t, status, 2)

	l.Close()
	assert.True(t, f.right.Closed)
}
