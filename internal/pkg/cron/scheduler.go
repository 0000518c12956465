package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs on fixed intervals, each in its own
// goroutine. Jobs are expected to be idempotent since an interval tick can
// coincide with process restarts.
type Scheduler struct {
	mu     sync.Mutex
	jobs   []job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// AddJob registers a job. Must be called before Start.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job{name: name, interval: interval, fn: fn})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start launches one goroutine per registered job. Each job fires once
// immediately and then on every interval tick until Stop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go func(j job) {
			defer s.wg.Done()

			ticker := time.NewTicker(j.interval)
			defer ticker.Stop()

			s.fire(s.ctx, j)
			for {
				select {
				case <-s.ctx.Done():
					return
				case <-ticker.C:
					s.fire(s.ctx, j)
				}
			}
		}(j)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all job contexts and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// fire runs one job execution, recovering panics so a misbehaving job cannot
// take the process down.
func (s *Scheduler) fire(ctx context.Context, j job) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			slog.Error("Cron job panicked", "name", j.name, "panic", fmt.Sprint(p))
		}
	}()

	if err := j.fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", j.name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron job completed", "name", j.name, "duration", time.Since(start))
}

// RunOnce executes every registered job once on the caller's context. Used by
// tests and one-shot maintenance commands.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.fire(ctx, j)
	}
}
