package worker

import (
	"math"
	"time"
)

// backoffDelay computes the sleep duration before retrying a job whose
// attempts-after-this-failure count is attempts, per spec.md §4.1/§4.5:
// backoff_base ^ attempts seconds, real and coarse-grained, no jitter.
func backoffDelay(base float64, attempts uint32) time.Duration {
	seconds := math.Pow(base, float64(attempts))
	return time.Duration(seconds * float64(time.Second))
}
