package scheduler

import (
	"context"
	"sync"
)

// Pool bounds concurrent executions using a semaphore. A slot
// is acquired before a job is claimed, so the pool size is a
// hard ceiling on concurrently running jobs.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Size returns the configured concurrency limit.
func (p *Pool) Size() int {
	return cap(p.sem)
}

// Acquire blocks until a slot is free or the context is done.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot without running anything. Used when a
// claim attempt after Acquire found no work.
func (p *Pool) Release() {
	<-p.sem
}

// Go runs fn on a held slot, releasing it when fn returns. The
// caller must have acquired the slot.
func (p *Pool) Go(fn func()) {
	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		fn()
	}()
}

// Wait blocks until every running fn has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
