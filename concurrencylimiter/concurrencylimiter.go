// Package concurrencylimiter bounds how many goroutines a fan-out may run
// at once, via a token stashed on a context.Context. A fan-out over a
// result array or an executor set acquires a token before doing work and
// releases it when done; once the tokens are exhausted, Acquire blocks
// until one frees up.
package concurrencylimiter

import "context"

type semaphore chan struct{}

func (s semaphore) acquire() { s <- struct{}{} }
func (s semaphore) release() { <-s }

type key struct{}

// With attaches a limiter capped at maxConcurrency to ctx. A maxConcurrency
// of zero or less means unlimited.
func With(ctx context.Context, maxConcurrency int) context.Context {
	if maxConcurrency <= 0 {
		return ctx
	}
	return context.WithValue(ctx, key{}, semaphore(make(chan struct{}, maxConcurrency)))
}

// Acquire blocks until a token is available, returning a release func the
// caller must call exactly once. If ctx carries no limiter, release is a
// no-op.
func Acquire(ctx context.Context) func() {
	sem, ok := ctx.Value(key{}).(semaphore)
	if !ok {
		return func() {}
	}
	sem.acquire()
	return sem.release
}
