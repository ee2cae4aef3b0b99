package parallel

import (
	"iter"
	"runtime"
	"sync"
)

// Pool runs jobs on a fixed set of goroutines.
// With a single worker, jobs run inline on the caller's goroutine.
type Pool struct {
	wg      sync.WaitGroup
	workers int
	jobs    chan func()
	stop    func()
}

// DefaultWorkers is the pool size used when none is given.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// Start a pool. numWorkers < 1 means DefaultWorkers.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = DefaultWorkers()
	}

	pool := &Pool{
		workers: numWorkers,
		stop:    func() {},
	}

	if numWorkers > 1 {
		pool.jobs = make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range pool.jobs {
					f()
				}
			})
		}

		pool.stop = sync.OnceFunc(func() { close(pool.jobs) })
	}

	return pool
}

func (p *Pool) Workers() int {
	return p.workers
}

// Go queues f, blocking while every worker is busy.
// It must not be called after Wait.
func (p *Pool) Go(f func()) {
	if p.jobs == nil {
		f()
		return
	}
	p.jobs <- f
}

// Wait stops accepting jobs and waits for the queued ones to finish.
func (p *Pool) Wait() {
	p.stop()
	p.wg.Wait()
}

// Map runs f over every item of seq and returns the results in seq's order.
func Map[T, R any](numWorkers int, seq iter.Seq[T], f func(int, T) R) []R {
	pool := Start(numWorkers)

	var slots []*R
	i := 0
	for item := range seq {
		slot := new(R)
		slots = append(slots, slot)

		idx := i
		pool.Go(func() {
			*slot = f(idx, item)
		})
		i++
	}
	pool.Wait()

	res := make([]R, len(slots))
	for i, slot := range slots {
		res[i] = *slot
	}
	return res
}
