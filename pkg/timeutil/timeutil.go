package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoffDelay computes the delay before the next attempt.
// The delay grows as initial * multiplier^(attempt-1), capped at the
// configured maximum, with an optional uniformly distributed jitter on top.
// A nil rng or non-positive jitter yields the pure exponential value.
//
// attempt is 1-indexed: the first backoff (attempt=1) yields the initial duration.
func ExponentialBackoffDelay(
	attempt int,
	jitter time.Duration,
	rng *rand.Rand,
	backoffParam BackoffParam,
) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	exponent := float64(attempt - 1)
	delay := float64(backoffParam.initialDuration) * math.Pow(backoffParam.multiplier, exponent)
	if delay > float64(backoffParam.maxDuration) {
		delay = float64(backoffParam.maxDuration)
	}

	if jitter > 0 && rng != nil {
		delay += float64(rng.Int63n(int64(jitter)))
	}

	if delay < 0 {
		return 0
	}

	return time.Duration(delay)
}
