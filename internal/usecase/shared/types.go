package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditEntry is one line of the append-only settlement log.
type AuditEntry struct {
	ID            uuid.UUID
	RunID         uuid.UUID
	LoggedAt      time.Time
	ReservationID int64
	MemberID      int64
	SlotDate      time.Time
	ResourceName  string
	Percentage    decimal.Decimal
	Charge        decimal.Decimal
	OldBalance    decimal.Decimal
	NewBalance    decimal.Decimal
	Line          string
}

const (
	JobStatusQueued = "queued"
	JobStatusSent   = "sent"
	JobStatusFailed = "failed"
)

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	RunAt    time.Time
	Attempts int32
}
