package reservation

import (
	"errors"
	"time"

	"kilnbook/internal/domain/calendar"
	"kilnbook/internal/domain/member"
)

var (
	ErrInvalidOwner    = errors.New("invalid owner")
	ErrInvalidResource = errors.New("invalid kiln")
	ErrAlreadyNotified = errors.New("reservation already notified")
)

// Reservation is the single booking of a kiln on a date. (resourceID, date)
// is its natural key.
type Reservation struct {
	id            int64
	resourceID    int64
	date          time.Time
	ownerID       int64
	details       Details
	split         Split
	splitRecorded bool
	notified      bool
	settled       bool
	createdAt     time.Time
	updatedAt     time.Time
}

// NewReservation books a free slot. A nil split means none was given, in
// which case the owner carries the full cost.
func NewReservation(resourceID int64, date time.Time, ownerID int64, details Details, split *Split, now time.Time) (*Reservation, error) {
	if resourceID <= 0 {
		return nil, ErrInvalidResource
	}
	if ownerID <= 0 {
		return nil, ErrInvalidOwner
	}
	if !calendar.IsEligibleWeekday(date.Weekday()) {
		return nil, calendar.ErrIneligibleWeekday
	}
	r := &Reservation{
		resourceID: resourceID,
		date:       date,
		ownerID:    ownerID,
		details:    details,
		createdAt:  now,
		updatedAt:  now,
	}
	r.setSplit(split)
	return r, nil
}

func ReconstructReservation(
	id, resourceID int64,
	date time.Time,
	ownerID int64,
	details Details,
	split *Split,
	notified, settled bool,
	createdAt, updatedAt time.Time,
) *Reservation {
	r := &Reservation{
		id:         id,
		resourceID: resourceID,
		date:       date,
		ownerID:    ownerID,
		details:    details,
		notified:   notified,
		settled:    settled,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
	r.setSplit(split)
	return r
}

func (r *Reservation) setSplit(split *Split) {
	if split == nil {
		r.split = Split{}
		r.splitRecorded = false
		return
	}
	r.split = *split
	r.splitRecorded = true
}

// Revise replaces owner, details and split of an unsettled reservation.
// The caller is expected to have run AuthorizeUpdate.
func (r *Reservation) Revise(ownerID int64, details Details, split *Split, now time.Time) error {
	if r.settled {
		return ErrSettled
	}
	if ownerID <= 0 {
		return ErrInvalidOwner
	}
	r.ownerID = ownerID
	r.details = details
	r.setSplit(split)
	r.updatedAt = now
	return nil
}

func (r *Reservation) AuthorizeUpdate(actor member.ActorContext) error {
	if r.settled {
		return ErrSettled
	}
	if actor.UserID() != r.ownerID && !actor.CanOverride() {
		return ErrNotPermitted
	}
	return nil
}

func (r *Reservation) AuthorizeCancel(actor member.ActorContext, today time.Time) error {
	if r.settled {
		return ErrSettled
	}
	if !r.Permissions(actor, today).Deletable {
		return ErrNotPermitted
	}
	return nil
}

func (r *Reservation) Permissions(actor member.ActorContext, today time.Time) Permissions {
	return BookedSlotPermissions(actor, r.ownerID, r.settled, r.date, today)
}

// MarkNotified records that the owner was reminded. Only the scheduler calls it.
func (r *Reservation) MarkNotified(now time.Time) error {
	if r.settled {
		return ErrSettled
	}
	if r.notified {
		return ErrAlreadyNotified
	}
	r.notified = true
	r.updatedAt = now
	return nil
}

// MarkSettled is the irreversible final transition.
func (r *Reservation) MarkSettled(now time.Time) error {
	if r.settled {
		return ErrSettled
	}
	r.settled = true
	r.updatedAt = now
	return nil
}

// RecordedSplit returns the stored split; ok is false when none was recorded.
func (r *Reservation) RecordedSplit() (split Split, ok bool) {
	return r.split, r.splitRecorded
}

// EffectiveSplit is the recorded split, or the owner at 100% when none was recorded.
func (r *Reservation) EffectiveSplit() Split {
	if !r.splitRecorded {
		return DefaultSplit(r.ownerID)
	}
	return r.split
}

// SettlementDeadline is the first day the reservation is charged.
func (r *Reservation) SettlementDeadline() time.Time {
	return r.date.AddDate(0, 0, GraceDays)
}

func (r *Reservation) ID() int64            { return r.id }
func (r *Reservation) ResourceID() int64    { return r.resourceID }
func (r *Reservation) Date() time.Time      { return r.date }
func (r *Reservation) OwnerID() int64       { return r.ownerID }
func (r *Reservation) Details() Details     { return r.details }
func (r *Reservation) Notified() bool       { return r.notified }
func (r *Reservation) Settled() bool        { return r.settled }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }
