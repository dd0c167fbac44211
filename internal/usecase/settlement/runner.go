package settlement

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"kilnbook/internal/pkg/clock"
	"kilnbook/internal/pkg/errs"
)

//go:generate mockgen -source=runner.go -destination=../../mock/settlement/runner_mock.go -package=settlementmock

var (
	ErrRunInProgress = errs.New("settlement run already in progress")
	ErrLockHeld      = errs.New("settlement lock held by another instance")
)

// Locker keeps runs exclusive across instances. release is nil when the
// lock was not acquired.
type Locker interface {
	TryLock(ctx context.Context, ttl time.Duration) (release func(), err error)
}

// LocalLocker always succeeds. Only use it with a single instance.
type LocalLocker struct{}

func NewLocalLocker() *LocalLocker { return &LocalLocker{} }

func (LocalLocker) TryLock(context.Context, time.Duration) (func(), error) {
	return func() {}, nil
}

// Trigger starts an out-of-schedule run.
type Trigger interface {
	RunNow(ctx context.Context) (*RunReport, error)
}

type RunnerConfig struct {
	Enabled bool
	Hour    int
	Minute  int
	Loc     *time.Location
	Timeout time.Duration
	LockTTL time.Duration
}

// Runner fires the scheduler once a day at a local wall-clock time. A
// missed tick is not made up for.
type Runner struct {
	scheduler Scheduler
	locker    Locker
	clock     clock.Clock
	cfg       RunnerConfig

	running atomic.Bool
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func NewRunner(scheduler Scheduler, locker Locker, clk clock.Clock, cfg RunnerConfig) *Runner {
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &Runner{
		scheduler: scheduler,
		locker:    locker,
		clock:     clk,
		cfg:       cfg,
	}
}

func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cfg.Enabled {
		slog.Info("settlement runner disabled")
		return
	}
	if r.started {
		return
	}
	r.started = true
	r.stop = make(chan struct{})
	r.wg.Add(1)
	go r.loop(r.stop)

	slog.Info("settlement runner started", "next_run", r.NextRun(r.clock.Now()).Format(time.RFC3339))
}

func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return
	}
	close(r.stop)
	r.wg.Wait()
	r.started = false
	slog.Info("settlement runner stopped")
}

// NextRun is the first configured wall-clock time strictly after now.
func (r *Runner) NextRun(now time.Time) time.Time {
	local := now.In(r.cfg.Loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), r.cfg.Hour, r.cfg.Minute, 0, 0, r.cfg.Loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, r.cfg.Hour, r.cfg.Minute, 0, 0, r.cfg.Loc)
	}
	return next
}

func (r *Runner) loop(stop <-chan struct{}) {
	defer r.wg.Done()

	for {
		wait := r.NextRun(r.clock.Now()).Sub(r.clock.Now())
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			go func() {
				if _, err := r.RunNow(context.Background()); err != nil {
					slog.Warn("scheduled settlement run did not complete", "error", err.Error())
				}
			}()
		case <-stop:
			timer.Stop()
			return
		}
	}
}

// RunNow runs the scheduler under the overlap guard and the instance lock,
// detached from ctx cancellation but bounded by the configured timeout.
func (r *Runner) RunNow(ctx context.Context) (*RunReport, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer r.running.Store(false)

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.Timeout)
	defer cancel()

	release, err := r.locker.TryLock(runCtx, r.cfg.LockTTL)
	if err != nil {
		return nil, errs.Wrap(err, "acquire settlement lock")
	}
	if release == nil {
		return nil, ErrLockHeld
	}
	defer release()

	return r.scheduler.RunOnce(runCtx)
}

func (r *Runner) Running() bool {
	return r.running.Load()
}
