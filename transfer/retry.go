package transfer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultRetryDelay is the unit of the linear backoff between attempts.
const DefaultRetryDelay = time.Second

// linearBackOff waits k times delay before the k-th retry.
type linearBackOff struct {
	delay   time.Duration
	retries int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.retries++
	return time.Duration(b.retries) * b.delay
}

func (b *linearBackOff) Reset() { b.retries = 0 }

// RetryPolicy runs an attempt function until it succeeds or the retries are
// used up. Attempt k waits k times Delay before it starts.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
	// Timer waits out the backoff. A real timer is used when it is nil.
	Timer backoff.Timer
	// OnRetry is called before every retry with the attempt index.
	OnRetry func(attempt int)
}

// Do calls fn with attempt indexes 0..MaxRetries and returns the number of
// attempts made and the error of the last one. A done context stops the
// loop during a backoff.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) (int, error) {
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}

	bkf := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{delay: p.Delay}, uint64(retries)),
		ctx,
	)

	attempts := 0
	operation := func() error {
		attempts++
		return fn(attempts - 1)
	}
	notify := func(error, time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempts)
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, bkf, notify, p.Timer)
	return attempts, err
}
