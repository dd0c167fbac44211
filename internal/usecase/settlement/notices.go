package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Notification job kinds and the queues they are published to.
const (
	KindSettlementCharged = "settlement.charged"
	KindReminder          = "reservation.reminder"

	TopicSettlement = "kilnbook.settlement"
	TopicReminder   = "kilnbook.reminder"
)

// ChargeNotice tells a participant that their balance was debited.
type ChargeNotice struct {
	ReservationID   int64           `json:"reservation_id"`
	MemberID        int64           `json:"member_id"`
	MemberName      string          `json:"member_name"`
	MemberEmail     string          `json:"member_email"`
	OwnerName       string          `json:"owner_name"`
	ResourceName    string          `json:"resource_name"`
	SlotDate        string          `json:"slot_date"`
	Percentage      decimal.Decimal `json:"percentage"`
	Charge          decimal.Decimal `json:"charge"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
}

// ReminderNotice asks the owner to check the split before the deadline.
// MaxCharge is the full rate; OwnerCharge is the owner's share under the
// current split.
type ReminderNotice struct {
	ReservationID int64           `json:"reservation_id"`
	OwnerID       int64           `json:"owner_id"`
	OwnerName     string          `json:"owner_name"`
	OwnerEmail    string          `json:"owner_email"`
	ResourceName  string          `json:"resource_name"`
	SlotDate      string          `json:"slot_date"`
	Deadline      string          `json:"deadline"`
	MaxCharge     decimal.Decimal `json:"max_charge"`
	OwnerCharge   decimal.Decimal `json:"owner_charge"`
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
