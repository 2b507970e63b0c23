package transfer

import (
	"context"
	"fmt"
	"sync"

	"github.com/peak/s5xfer/parallel"
)

// Job transfers a single candidate and always returns its terminal outcome.
type Job func(ctx context.Context, c Candidate) Outcome

// Scheduler runs one job per candidate with a bounded number of jobs in
// flight. A failing job never affects the others.
type Scheduler struct {
	manager *parallel.Manager
}

// NewScheduler returns a Scheduler running at most concurrency jobs at once.
func NewScheduler(concurrency int) *Scheduler {
	return &Scheduler{manager: parallel.New(concurrency)}
}

// Run admits the candidates in order, waits for every job and returns the
// outcomes in completion order.
func (s *Scheduler) Run(ctx context.Context, candidates []Candidate, job Job) []Outcome {
	var (
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(candidates))
	)

	for _, c := range candidates {
		c := c
		s.manager.Run(func() {
			outcome := runJob(ctx, job, c)

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		})
	}
	s.manager.Wait()

	return outcomes
}

// runJob converts a panicking job into an error outcome.
func runJob(ctx context.Context, job Job, c Candidate) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{
				LocalPath: c.LocalPath,
				RemoteKey: c.RemoteKey,
				Size:      c.Size,
				Status:    StatusError,
				Error:     fmt.Sprintf("unexpected failure: %v", r),
			}
		}
	}()
	return job(ctx, c)
}
