package worker

import (
	"sync"

	"github.com/mx-styles/library-management-system/internal/metrics"
)

type task func()

type Pool struct {
	wg      sync.WaitGroup
	jobs    chan task
	mu      sync.Mutex
	stopped bool
}

func NewPool(n int) *Pool {
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
				metrics.AuditQueueDepth.Dec()
			}
		}()
	}
	return p
}

// Submit enqueues f, dropping it when the pool is already stopped.
func (p *Pool) Submit(f task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	metrics.AuditQueueDepth.Inc()
	p.jobs <- f
}

// Stop drains the queue and waits for the workers. Safe to call twice.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
