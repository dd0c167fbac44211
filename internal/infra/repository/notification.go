package repository

import (
	"context"
	"time"

	"kilnbook/internal/infra"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"
	"kilnbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertNotificationJob = `
INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5, $6)`

	claimQueuedJobs = `
SELECT id, kind, topic, payload, run_at, attempts
  FROM notification_jobs
 WHERE status = 'queued' AND run_at <= $1
 ORDER BY run_at, id
 LIMIT $2
 FOR UPDATE SKIP LOCKED`

	updateNotificationJobStatus = `
UPDATE notification_jobs
   SET status = $2, last_error = $3, attempts = attempts + 1, updated_at = now()
 WHERE id = $1`
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := tx.Exec(ctx, insertNotificationJob,
		uuid.New(),
		kind,
		topic,
		payload,
		pgtype.Timestamptz{Time: runAt, Valid: true},
		shared.JobStatusQueued,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

func (r *NotificationRepository) ClaimQueued(ctx context.Context, tx db.DBTX, now time.Time, limit int) ([]shared.NotificationJob, error) {
	rows, err := tx.Query(ctx, claimQueuedJobs, pgconv.TimeToPgtype(now), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var (
			job   shared.NotificationJob
			runAt pgtype.Timestamptz
		)
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Payload, &runAt, &job.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		job.RunAt = pgconv.TimeFromPgtype(runAt)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) UpdateJobStatus(ctx context.Context, tx db.DBTX, jobID uuid.UUID, status string, lastError *string) error {
	_, err := tx.Exec(ctx, updateNotificationJobStatus, jobID, status, pgconv.StringPtrToPgtype(lastError))
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}

	return nil
}
