// Package scanloop runs a periodic sweep with a small random spread so
// concurrent loops over the same store drift apart instead of firing in
// lockstep.
package scanloop

import (
	"math/rand/v2"
	"time"
)

// Run invokes fn once per cycle until stopCh is closed. Each cycle waits
// interval plus a random slice of [0, jitter).
func Run(stopCh <-chan struct{}, interval, jitter time.Duration, fn func()) {
	if interval <= 0 {
		interval = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}

	timer := time.NewTimer(cycle(interval, jitter))
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timer.C:
		}
		fn()
		timer.Reset(cycle(interval, jitter))
	}
}

func cycle(interval, jitter time.Duration) time.Duration {
	if jitter <= 0 {
		return interval
	}
	return interval + time.Duration(rand.Int64N(int64(jitter)))
}
