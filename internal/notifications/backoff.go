package notifications

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff returns base*2^attempt capped at capDelay, plus up to
// base/4 of jitter so concurrent senders do not retry in lockstep.
func ExponentialBackoff(attempt int, base, capDelay time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}

	// attempt=0 => base
	// attempt=1 => 2*base
	// attempt=2 => 4*base
	multiple := math.Pow(2, float64(attempt))
	delay := time.Duration(float64(base) * multiple)

	if delay > capDelay {
		delay = capDelay
	}

	if jitter := int64(base / 4); jitter > 0 {
		delay += time.Duration(rand.Int63n(jitter))
	}
	return delay
}
