package shared

import (
	"context"
	"time"

	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/domain/resource"
	"kilnbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Members() MemberRepository
	Resources() ResourceRepository
	Tariffs() TariffRepository
	Audit() AuditRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ResourceByID(ctx context.Context, id int64) (*resource.Resource, error)
	// ReservationByKey returns nil, nil when the slot is free.
	ReservationByKey(ctx context.Context, resourceID int64, date time.Time, forUpdate bool) (*reservation.Reservation, error)
	ReservationByID(ctx context.Context, id int64) (*reservation.Reservation, error)
	MemberByID(ctx context.Context, id int64) (*MemberSnapshot, error)
	// OverrideRate returns nil, nil when no override is configured.
	OverrideRate(ctx context.Context, memberID, resourceID int64) (*decimal.Decimal, error)
	SettlementDue(ctx context.Context, today time.Time) ([]int64, error)
	ReminderDue(ctx context.Context, today time.Time) ([]int64, error)
}

// Minimal snapshot for command read operations
type MemberSnapshot struct {
	ID          int64
	DisplayName string
	Email       string
	Balance     decimal.Decimal
}

type ReservationRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (int64, error)
	Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error
	Delete(ctx context.Context, tx db.DBTX, id int64) error
	// ClaimSettlement flips settled to true only if it was false and reports whether it did.
	ClaimSettlement(ctx context.Context, tx db.DBTX, id int64) (bool, error)
	// MarkNotified flips notified to true only on unsettled, unnotified rows.
	MarkNotified(ctx context.Context, tx db.DBTX, id int64) (bool, error)
}

type MemberRepository interface {
	// Debit subtracts amount and returns the balance before and after.
	Debit(ctx context.Context, tx db.DBTX, memberID int64, amount decimal.Decimal) (before, after decimal.Decimal, err error)
}

type ResourceRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *resource.Resource) (int64, error)
	UpdateRate(ctx context.Context, tx db.DBTX, res *resource.Resource) error
}

type TariffRepository interface {
	Upsert(ctx context.Context, tx db.DBTX, memberID, resourceID int64, rate decimal.Decimal) error
	Delete(ctx context.Context, tx db.DBTX, memberID, resourceID int64) (bool, error)
}

type AuditRepository interface {
	Append(ctx context.Context, tx db.DBTX, entry AuditEntry) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimQueued locks due queued jobs, skipping rows held by another dispatcher.
	ClaimQueued(ctx context.Context, tx db.DBTX, now time.Time, limit int) ([]NotificationJob, error)
	UpdateJobStatus(ctx context.Context, tx db.DBTX, jobID uuid.UUID, status string, lastError *string) error
}
