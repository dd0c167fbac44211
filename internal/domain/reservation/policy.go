package reservation

import (
	"errors"
	"time"

	"kilnbook/internal/domain/calendar"
	"kilnbook/internal/domain/member"
)

var (
	ErrNotPermitted = errors.New("actor may not change this reservation")
	ErrSettled      = errors.New("reservation is settled")
)

// Permissions are the edit rights an actor has on one calendar slot.
type Permissions struct {
	Editable  bool
	Deletable bool
}

// OpenSlotPermissions applies to a date without a reservation. Booking a
// past date needs the override capability.
func OpenSlotPermissions(actor member.ActorContext, date, today time.Time) Permissions {
	return Permissions{
		Editable:  !calendar.IsPast(date, today) || actor.CanOverride(),
		Deletable: false,
	}
}

// BookedSlotPermissions applies to an existing reservation.
// Settled rows are frozen for everyone. Owners may edit until settlement
// but cancel only while the date is today or later; override holders may
// do both until settlement.
func BookedSlotPermissions(actor member.ActorContext, ownerID int64, settled bool, date, today time.Time) Permissions {
	if settled {
		return Permissions{}
	}
	if actor.CanOverride() {
		return Permissions{Editable: true, Deletable: true}
	}
	if actor.UserID() == ownerID {
		return Permissions{Editable: true, Deletable: !calendar.IsPast(date, today)}
	}
	return Permissions{}
}

// AuthorizeCreate checks a booking of a free slot.
func AuthorizeCreate(actor member.ActorContext, date, today time.Time) error {
	if !OpenSlotPermissions(actor, date, today).Editable {
		return ErrNotPermitted
	}
	return nil
}
