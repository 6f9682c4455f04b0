package apterr

import "time"

// WithDeadline returns a predicate that is true until d has elapsed since
// the call to WithDeadline, and false (once, and forever after) on the
// first call past the deadline. Reply-wait loops build on this: each inner
// blocking receive gets its own bound, while the outer check() caps the
// total wait.
func WithDeadline(d time.Duration) (check func() bool) {
	deadline := time.Now().Add(d)
	return func() bool {
		return time.Now().Before(deadline)
	}
}
