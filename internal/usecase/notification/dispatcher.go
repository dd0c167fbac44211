// Package notification drains the outbox of queued notification jobs.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type Message struct {
	ID      uuid.UUID
	Kind    string
	Topic   string
	Payload []byte
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

type Metrics interface {
	Delivered(kind, status string)
}

type NoopMetrics struct{}

func (NoopMetrics) Delivered(string, string) {}

type DispatchReport struct {
	Sent   int
	Failed int
}

type Dispatcher struct {
	uow       shared.UnitOfWork
	publisher Publisher
	tk        *shared.Timekeeper
	metrics   Metrics
	batchSize int
	interval  time.Duration

	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func NewDispatcher(uow shared.UnitOfWork, publisher Publisher, tk *shared.Timekeeper, metrics Metrics, batchSize int, interval time.Duration) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 50
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Dispatcher{
		uow:       uow,
		publisher: publisher,
		tk:        tk,
		metrics:   metrics,
		batchSize: batchSize,
		interval:  interval,
	}
}

// DispatchOnce publishes one batch of due jobs. Jobs stay locked until their
// status is written, so concurrent dispatchers never publish the same job.
// A failed publish is recorded on the job and does not affect the others.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (DispatchReport, error) {
	var report DispatchReport
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		report = DispatchReport{}

		jobs, err := tx.Notifications().ClaimQueued(ctx, tx.DB(), d.tk.Now(), d.batchSize)
		if err != nil {
			return errs.Wrap(err, "claim queued notification jobs")
		}

		for _, job := range jobs {
			status := shared.JobStatusSent
			var lastErr *string

			pubErr := d.publisher.Publish(ctx, Message{ID: job.ID, Kind: job.Kind, Topic: job.Topic, Payload: job.Payload})
			if pubErr != nil {
				status = shared.JobStatusFailed
				msg := pubErr.Error()
				lastErr = &msg
				slog.Warn("notification publish failed", "job_id", job.ID.String(), "kind", job.Kind, "attempt", job.Attempts+1, "error", msg)
			}

			if err := tx.Notifications().UpdateJobStatus(ctx, tx.DB(), job.ID, status, lastErr); err != nil {
				return errs.Wrapf(err, "update notification job %s", job.ID)
			}

			if pubErr != nil {
				report.Failed++
			} else {
				report.Sent++
			}
			d.metrics.Delivered(job.Kind, status)
		}
		return nil
	})
	if err != nil {
		return DispatchReport{}, err
	}
	return report, nil
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return
	}
	d.started = true
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go d.loop(d.stop)

	slog.Info("notification dispatcher started", "interval", d.interval.String(), "batch_size", d.batchSize)
}

func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return
	}
	close(d.stop)
	d.wg.Wait()
	d.started = false
	slog.Info("notification dispatcher stopped")
}

func (d *Dispatcher) loop(stop <-chan struct{}) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report, err := d.DispatchOnce(context.Background())
			if err != nil {
				slog.Error("notification dispatch failed", "error", err.Error())
				continue
			}
			if report.Sent+report.Failed > 0 {
				slog.Info("notifications dispatched", "sent", report.Sent, "failed", report.Failed)
			}
		case <-stop:
			return
		}
	}
}
