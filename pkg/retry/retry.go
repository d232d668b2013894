// Package retry expresses each phase driver's retry behavior as a small
// policy record, per spec.md §9 ("Retries ... express as a small policy
// record passed to each driver, not as scattered ad-hoc sleeps"), backed
// by github.com/avast/retry-go.
package retry

import (
	"context"
	"time"

	retrygo "github.com/avast/retry-go"
)

// Policy bounds a driver's retry behavior: attempts total, an initial
// delay, a backoff multiplier, and a ceiling on any single delay.
type Policy struct {
	Attempts uint
	Base     time.Duration
	Factor   float64
	MaxDelay time.Duration
}

// Discovery's inventory resolution: base 1s, factor 2, max 3 attempts (spec.md §4.1).
func DiscoveryInventoryPolicy() Policy {
	return Policy{Attempts: 3, Base: time.Second, Factor: 2, MaxDelay: 4 * time.Second}
}

// Schedule's accept call: retried up to 3 times with backoff (spec.md §4.4).
func ScheduleAcceptPolicy() Policy {
	return Policy{Attempts: 3, Base: time.Second, Factor: 2, MaxDelay: 10 * time.Second}
}

// Do runs fn under the policy, stopping early if ctx is canceled. It
// returns the last error on exhaustion. Factor is honored through
// retry-go's built-in exponential BackOffDelay (base * 2^attempt); a
// Factor other than 2 is not expressible by the underlying library and
// falls back to a constant delay.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	delayType := retrygo.FixedDelay
	if p.Factor == 2 {
		delayType = retrygo.BackOffDelay
	}
	opts := []retrygo.Option{
		retrygo.Attempts(attemptsOrDefault(p.Attempts)),
		retrygo.Delay(p.Base),
		retrygo.DelayType(delayType),
		retrygo.MaxDelay(p.MaxDelay),
		retrygo.LastErrorOnly(true),
		retrygo.Context(ctx),
	}
	return retrygo.Do(fn, opts...)
}

func attemptsOrDefault(attempts uint) uint {
	if attempts == 0 {
		return 1
	}
	return attempts
}
