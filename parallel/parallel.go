// Package parallel bounds the number of tasks running at the same time.
package parallel

import (
	"sync"
)

// Task is a unit of work run by a Manager.
type Task func()

// Manager is the manager to run and manage workers. Each Manager owns its
// slots, so independent runs never share a limit.
type Manager struct {
	wg        *sync.WaitGroup
	semaphore chan struct{}
}

// New creates a new Manager with the given number of slots. A non-positive
// count is treated as one.
func New(workercount int) *Manager {
	if workercount <= 0 {
		workercount = 1
	}
	return &Manager{
		wg:        &sync.WaitGroup{},
		semaphore: make(chan struct{}, workercount),
	}
}

// acquire acquires the semaphore and blocks until resources are available.
// It also increments the WaitGroup counter by one.
func (p *Manager) acquire() {
	p.semaphore <- struct{}{}
	p.wg.Add(1)
}

// release decrements the WaitGroup counter by one and releases the semaphore.
func (p *Manager) release() {
	p.wg.Done()
	<-p.semaphore
}

// Run blocks until a slot is free and runs the task on a new goroutine. The
// slot is released when the task returns. Tasks submitted from a single
// goroutine are admitted in submission order.
func (p *Manager) Run(task Task) {
	p.acquire()
	go func() {
		defer p.release()
		task()
	}()
}

// Wait blocks until every submitted task has returned.
func (p *Manager) Wait() {
	p.wg.Wait()
}
