// Package jobs implements the client's background job scheduler: a keyed
// job queue with at-most-one-queued coalescing, an exponential retry
// backoff, and a network-availability constraint.
//
// It plays the role a platform work manager plays on mobile: the sync logic
// enqueues a drain job under a well-known key and the scheduler guarantees
// a single execution at a time per key, replacing stale queued requests
// instead of piling up duplicates.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/stocksentry/internal/logging"
	"github.com/sethvargo/go-retry"
)

// Outcome is the result a job execution reports back to the scheduler.
type Outcome int

const (
	// OutcomeDone means the job finished; the slot is released.
	OutcomeDone Outcome = iota

	// OutcomeRetry asks for another run after a backed-off delay.
	OutcomeRetry

	// OutcomeFailed means the job hit a non-retryable condition; the slot
	// is released without rescheduling.
	OutcomeFailed
)

// Runner is a job entry point. It must honor ctx cancellation.
type Runner func(ctx context.Context) Outcome

// Options tunes scheduling behavior. Zero values fall back to the mobile
// client's historical policy: 5s initial delay, exponential backoff from
// 30s capped at 10m, constraint recheck every 3s.
type Options struct {
	// InitialDelay is waited before the first execution of a freshly
	// enqueued job.
	InitialDelay time.Duration

	// BackoffBase is the first retry delay; subsequent retries double it.
	BackoffBase time.Duration

	// BackoffCap bounds the retry delay.
	BackoffCap time.Duration

	// Online reports whether the network constraint is satisfied. Nil
	// means no constraint.
	Online func(ctx context.Context) bool

	// OnlinePollInterval is how often the constraint is rechecked while
	// unsatisfied.
	OnlinePollInterval time.Duration
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.InitialDelay <= 0 {
		out.InitialDelay = 5 * time.Second
	}
	if out.BackoffBase <= 0 {
		out.BackoffBase = 30 * time.Second
	}
	if out.BackoffCap <= 0 {
		out.BackoffCap = 10 * time.Minute
	}
	if out.OnlinePollInterval <= 0 {
		out.OnlinePollInterval = 3 * time.Second
	}
	return out
}

type jobState int

const (
	stateWaiting jobState = iota // queued, not yet started (initial or backoff delay)
	stateRunning
)

type job struct {
	key   string
	run   Runner
	state jobState
	rerun bool
	reset chan struct{}
}

// Scheduler owns the job slots. One Scheduler instance serves the whole
// process; the drain job key's uniqueness is what prevents two drain passes
// from double-processing the same pending set.
type Scheduler struct {
	opts   Options
	log    logging.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	jobs   map[string]*job
	closed bool
	wg     sync.WaitGroup
}

// NewScheduler returns a running scheduler. Call Close to stop it.
func NewScheduler(opts Options, log logging.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		opts:   opts.withDefaults(),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*job),
	}
}

// Enqueue schedules run under key.
//
// Coalescing rules:
//   - no job under key: a new one is queued with the initial delay;
//   - a queued job that has not started: it is superseded (runner swapped,
//     delay restarted);
//   - a running job: a single follow-up execution is recorded, so any number
//     of overlapping requests collapse into the next run.
func (s *Scheduler) Enqueue(key string, run Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if j, ok := s.jobs[key]; ok {
		j.run = run
		if j.state == stateWaiting {
			select {
			case j.reset <- struct{}{}:
			default:
			}
			s.log.Debug(s.ctx, "queued job superseded", "job", key)
		} else {
			j.rerun = true
			s.log.Debug(s.ctx, "job running, follow-up recorded", "job", key)
		}
		return
	}

	j := &job{key: key, run: run, reset: make(chan struct{}, 1)}
	s.jobs[key] = j
	s.wg.Add(1)
	go s.execute(j)
	s.log.Debug(s.ctx, "job enqueued", "job", key, "delay", s.opts.InitialDelay)
}

// Close cancels all jobs and waits for their goroutines to exit.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) execute(j *job) {
	defer s.wg.Done()
	defer s.remove(j)

	log := s.log.With("job", j.key)
	delay := s.opts.InitialDelay
	backoff := s.newBackoff()

	for {
		superseded, ok := s.waitDelay(j, delay)
		if !ok {
			return
		}
		if superseded {
			// A replacement restarts the whole schedule, the retry
			// progression included, matching the rerun path below.
			backoff = s.newBackoff()
		}
		if !s.awaitOnline() {
			return
		}

		s.mu.Lock()
		j.state = stateRunning
		run := j.run
		s.mu.Unlock()

		out := run(s.ctx)

		// The keep-or-release decision must be atomic with the rerun
		// check, or an Enqueue racing a finishing run could target a
		// slot that is about to disappear.
		s.mu.Lock()
		rerun := j.rerun
		j.rerun = false
		if out == OutcomeRetry || rerun {
			j.state = stateWaiting
			s.mu.Unlock()

			if out == OutcomeRetry {
				next, _ := backoff.Next()
				delay = next
				log.Debug(s.ctx, "job requested retry", "delay", delay)
			} else {
				delay = s.opts.InitialDelay
				backoff = s.newBackoff()
				log.Debug(s.ctx, "job re-queued after follow-up request")
			}
			continue
		}
		delete(s.jobs, j.key)
		s.mu.Unlock()

		if out == OutcomeFailed {
			log.Warn(s.ctx, "job failed, slot released")
		} else {
			log.Debug(s.ctx, "job done")
		}
		return
	}
}

func (s *Scheduler) newBackoff() retry.Backoff {
	return retry.WithCappedDuration(s.opts.BackoffCap, retry.NewExponential(s.opts.BackoffBase))
}

// waitDelay blocks for d, restarting the wait with the initial delay
// whenever the job is superseded. superseded reports whether that happened,
// so the caller can restart the backoff progression too; ok is false when
// the scheduler is shutting down.
func (s *Scheduler) waitDelay(j *job, d time.Duration) (superseded, ok bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return false, false
		case <-j.reset:
			superseded = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.opts.InitialDelay)
		case <-timer.C:
			return superseded, true
		}
	}
}

// awaitOnline blocks until the network constraint is satisfied.
func (s *Scheduler) awaitOnline() bool {
	if s.opts.Online == nil {
		return s.ctx.Err() == nil
	}
	for {
		if s.ctx.Err() != nil {
			return false
		}
		if s.opts.Online(s.ctx) {
			return true
		}
		select {
		case <-s.ctx.Done():
			return false
		case <-time.After(s.opts.OnlinePollInterval):
		}
	}
}

// remove releases j's slot unless a successor already claimed the key.
func (s *Scheduler) remove(j *job) {
	s.mu.Lock()
	if cur, ok := s.jobs[j.key]; ok && cur == j {
		delete(s.jobs, j.key)
	}
	s.mu.Unlock()
}
