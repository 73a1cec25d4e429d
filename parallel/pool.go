package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

type (
	Job        func() error
	WorkerFunc func(Job)
	WaitFunc   func(done bool) error
	CancelFunc func()
)

// Pool runs jobs on a fixed number of goroutines. With a single worker, Do
// runs the job inline. After Wait(true) the pool must not be used again.
type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc

	succeeded atomic.Uint64
	failed    atomic.Uint64
	mu        sync.Mutex
	errs      []error
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	pool.Do = pool.run
	pool.Wait = func(bool) error { return pool.Err() }
	pool.Cancel = func() {}

	if numWorkers > 1 {
		workChan := make(chan Job, numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for job := range workChan {
					pool.run(job)
				}
			})
		}

		pool.Do = func(job Job) {
			workChan <- job
		}

		pool.Wait = func(done bool) error {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
			return pool.Err()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

func (p *Pool) run(job Job) {
	if err := job(); err != nil {
		p.failed.Add(1)
		p.mu.Lock()
		p.errs = append(p.errs, err)
		p.mu.Unlock()
		return
	}
	p.succeeded.Add(1)
}

// Stats returns the number of finished jobs so far.
func (p *Pool) Stats() (succeeded, failed uint64) {
	return p.succeeded.Load(), p.failed.Load()
}

// Err joins the errors of every failed job so far.
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
