package queries

import (
	"time"

	"kilnbook/internal/domain/calendar"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResourceView represents read-optimized kiln data
type ResourceView struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	StandardRate decimal.Decimal `json:"standard_rate"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type SplitEntryView struct {
	ParticipantID   int64           `json:"participant_id"`
	ParticipantName string          `json:"participant_name,omitempty"`
	Percentage      decimal.Decimal `json:"percentage"`
}

// BookingRow is a stored reservation of one month, independent of who looks at it.
// Split is empty when no split was ever recorded.
type BookingRow struct {
	ReservationID int64            `json:"reservation_id"`
	ResourceID    int64            `json:"resource_id"`
	Date          time.Time        `json:"date"`
	OwnerID       int64            `json:"owner_id"`
	OwnerName     string           `json:"owner_name"`
	FireType      string           `json:"fire_type"`
	Temperature   *int             `json:"temperature,omitempty"`
	Program       *int             `json:"program,omitempty"`
	Note          *string          `json:"note,omitempty"`
	Notified      bool             `json:"notified"`
	Settled       bool             `json:"settled"`
	Split         []SplitEntryView `json:"split,omitempty"`
}

// SlotView is one eligible date of the calendar as seen by one actor.
type SlotView struct {
	Date          time.Time          `json:"date"`
	Day           int                `json:"day"`
	Weekday       string             `json:"weekday"`
	Booked        bool               `json:"booked"`
	ReservationID int64              `json:"reservation_id,omitempty"`
	OwnerID       int64              `json:"owner_id,omitempty"`
	OwnerName     string             `json:"owner_name,omitempty"`
	FireType      string             `json:"fire_type,omitempty"`
	Temperature   *int               `json:"temperature,omitempty"`
	Program       *int               `json:"program,omitempty"`
	Note          *string            `json:"note,omitempty"`
	Split         []SplitEntryView   `json:"split"`
	Notified      bool               `json:"notified"`
	Settled       bool               `json:"settled"`
	Past          bool               `json:"past"`
	Editable      bool               `json:"editable"`
	Deletable     bool               `json:"deletable"`
	State         calendar.SlotState `json:"state"`
	Color         string             `json:"color"`
}

type MonthLink struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type MonthView struct {
	ResourceID   int64      `json:"resource_id"`
	ResourceName string     `json:"resource_name"`
	Year         int        `json:"year"`
	Month        int        `json:"month"`
	Prev         MonthLink  `json:"prev"`
	Next         MonthLink  `json:"next"`
	Slots        []SlotView `json:"slots"`
}

// MemberView represents read-optimized member balance data
type MemberView struct {
	ID          int64           `json:"id"`
	DisplayName string          `json:"display_name"`
	Email       string          `json:"email"`
	Balance     decimal.Decimal `json:"balance"`
}

// UsageRow is one firing a member took part in, before pricing.
type UsageRow struct {
	ReservationID int64
	Date          time.Time
	ResourceID    int64
	ResourceName  string
	OwnerName     string
	FireType      string
	Temperature   *int
	Program       *int
	Percentage    decimal.Decimal
	StandardRate  decimal.Decimal
	Settled       bool
	// Charged is the amount debited at settlement, nil until an audit line exists.
	Charged *decimal.Decimal
}

type UsageLine struct {
	ReservationID int64           `json:"reservation_id"`
	Date          time.Time       `json:"date"`
	ResourceName  string          `json:"resource_name"`
	OwnerName     string          `json:"owner_name"`
	FireType      string          `json:"fire_type"`
	Temperature   *int            `json:"temperature,omitempty"`
	Program       *int            `json:"program,omitempty"`
	Percentage    decimal.Decimal `json:"percentage"`
	Charge        decimal.Decimal `json:"charge"`
	Provisional   bool            `json:"provisional"`
}

type UsageReport struct {
	MemberID         int64           `json:"member_id"`
	From             time.Time       `json:"from"`
	Lines            []UsageLine     `json:"lines"`
	TotalCharged     decimal.Decimal `json:"total_charged"`
	TotalProvisional decimal.Decimal `json:"total_provisional"`
}

type AuditLine struct {
	ID            uuid.UUID       `json:"id"`
	LoggedAt      time.Time       `json:"logged_at"`
	RunID         uuid.UUID       `json:"run_id"`
	ReservationID int64           `json:"reservation_id"`
	MemberID      int64           `json:"member_id"`
	SlotDate      time.Time       `json:"slot_date"`
	Charge        decimal.Decimal `json:"charge"`
	OldBalance    decimal.Decimal `json:"old_balance"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	Line          string          `json:"line"`
}

type OverrideView struct {
	MemberID     int64           `json:"member_id"`
	MemberName   string          `json:"member_name"`
	ResourceID   int64           `json:"resource_id"`
	ResourceName string          `json:"resource_name"`
	Rate         decimal.Decimal `json:"rate"`
}
