package snapshotter

import (
	"context"
	"time"
)

// alarmClock ticks once immediately and then on every interval until its
// context is done.
type alarmClock struct {
	interval time.Duration
	C        chan time.Time
}

func newAlarmClock(interval time.Duration) *alarmClock {
	return &alarmClock{interval: interval, C: make(chan time.Time)}
}

func (a *alarmClock) Start(ctx context.Context) <-chan time.Time {
	ticker := time.NewTicker(a.interval)

	go func() {
		defer ticker.Stop()
		defer close(a.C)

		select {
		case a.C <- time.Now():
		case <-ctx.Done():
			return
		}

		for {
			select {
			case t := <-ticker.C:
				select {
				case a.C <- t:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return a.C
}
