package pattern

import (
	"context"
	"time"

	"github.com/banshee-data/haptics/internal/haptics"
	"github.com/banshee-data/haptics/internal/timeutil"
)

// Dispatcher is the part of haptics.Dispatcher the player needs.
type Dispatcher interface {
	Dispatch(req haptics.FeedbackRequest) []haptics.Hand
}

// Result summarises a run. A step addressing both hands counts once per
// hand.
type Result struct {
	Steps   int
	Sent    int
	Dropped int
}

// Player plays patterns against a dispatcher.
type Player struct {
	d     Dispatcher
	clock timeutil.Clock
}

// NewPlayer returns a player using clock for waits. A nil clock uses real
// time.
func NewPlayer(d Dispatcher, clock timeutil.Clock) *Player {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Player{d: d, clock: clock}
}

// Play sends every step of p, Repeat times, waiting after each step. Pulses
// the dispatcher does not send (cooldown or glove not open) count as Dropped.
// Play stops early with ctx.Err() if ctx is cancelled, including during a
// wait. A Pattern built in code is validated on first play.
func (pl *Player) Play(ctx context.Context, p *Pattern) (Result, error) {
	var res Result
	if err := p.ensureCompiled(); err != nil {
		return res, err
	}

	for pass := 0; pass < p.Repeat; pass++ {
		for _, step := range p.compiled {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			sent := pl.d.Dispatch(step.req)
			res.Steps++
			res.Sent += len(sent)
			res.Dropped += len(step.req.Hand.Hands()) - len(sent)

			if err := pl.wait(ctx, step.wait); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func (pl *Player) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := pl.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}
