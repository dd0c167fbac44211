package commands

import (
	"context"
	"log/slog"
	"time"

	"kilnbook/internal/domain/calendar"
	"kilnbook/internal/domain/member"
	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/infra"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/queries"
	"kilnbook/internal/usecase/shared"
)

//go:generate mockgen -source=reservation.go -destination=../../mock/commands/reservation_mock.go -package=commandsmock

// Outcome is the result of an accepted or rejected mutation. Rejections are
// outcomes, not errors: storage stays untouched and the month is still rendered.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeForbidden Outcome = "forbidden"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeConflict  Outcome = "conflict"
)

var errSlotRace = errs.New("slot taken by concurrent create")

// MutateRequest carries a signed ResourceID: zero or negative cancels the
// reservation of kiln |ResourceID| on the given date.
type MutateRequest struct {
	ResourceID  int64
	Year        int
	Month       int
	Day         int
	OwnerID     int64
	FireType    string
	Temperature *int
	Program     *int
	Note        *string
	// Split nil means none was given.
	Split []reservation.SplitEntry
}

func (r MutateRequest) IsCancel() bool { return r.ResourceID <= 0 }

func (r MutateRequest) Kiln() int64 {
	if r.ResourceID < 0 {
		return -r.ResourceID
	}
	return r.ResourceID
}

type MutateResult struct {
	Outcome    Outcome
	ResourceID int64
	View       *queries.MonthView
}

type ReservationCommands interface {
	Mutate(ctx context.Context, actor member.ActorContext, req MutateRequest) (*MutateResult, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	calendar queries.CalendarQueries
	cache    shared.MonthCache
	tk       *shared.Timekeeper
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	calendarQueries queries.CalendarQueries,
	cache shared.MonthCache,
	tk *shared.Timekeeper,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		calendar: calendarQueries,
		cache:    cache,
		tk:       tk,
	}
}

// validated is a request that passed every check not needing storage.
type validated struct {
	resourceID int64
	date       time.Time
	ownerID    int64
	details    reservation.Details
	split      *reservation.Split
}

func (c *reservationCommandsImpl) Mutate(ctx context.Context, actor member.ActorContext, req MutateRequest) (*MutateResult, error) {
	in, err := c.validate(actor, req)
	if err != nil {
		return nil, err
	}

	if _, err := c.uow.CommandReads().ResourceByID(ctx, in.resourceID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &MutateResult{Outcome: OutcomeNotFound, ResourceID: in.resourceID}, nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var outcome Outcome
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var txErr error
		if req.IsCancel() {
			outcome, txErr = c.cancel(ctx, tx, actor, in)
		} else {
			outcome, txErr = c.save(ctx, tx, actor, in)
		}
		return txErr
	})
	switch {
	case errs.Is(err, errSlotRace):
		outcome = OutcomeConflict
	case err != nil:
		if errs.Is(err, errs.ErrDomainValidation) {
			return nil, err
		}
		slog.Error("reservation mutation failed",
			"resource_id", in.resourceID,
			"date", in.date.Format(time.DateOnly),
			"actor", actor.UserID(),
			"error", err.Error())
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if outcome == OutcomeOK {
		c.cache.Invalidate(ctx, shared.MonthKeyOf(in.resourceID, in.date))
	}

	slog.Info("reservation mutation",
		"resource_id", in.resourceID,
		"date", in.date.Format(time.DateOnly),
		"actor", actor.UserID(),
		"cancel", req.IsCancel(),
		"outcome", string(outcome))

	view, err := c.calendar.RenderMonth(ctx, actor, in.resourceID, req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	return &MutateResult{Outcome: outcome, ResourceID: in.resourceID, View: view}, nil
}

func (c *reservationCommandsImpl) validate(actor member.ActorContext, req MutateRequest) (*validated, error) {
	if req.Kiln() == 0 {
		return nil, errs.NewValidationError("resource_id", reservation.ErrInvalidResource)
	}
	date, err := calendar.SlotDate(req.Year, req.Month, req.Day)
	if err != nil {
		return nil, errs.NewValidationError("date", err)
	}
	in := &validated{resourceID: req.Kiln(), date: date}
	if req.IsCancel() {
		return in, nil
	}

	// A missing owner is resolved in save: the actor on create, the
	// current owner on update.
	in.ownerID = req.OwnerID
	if in.ownerID < 0 {
		return nil, errs.NewValidationError("owner_id", reservation.ErrInvalidOwner)
	}

	in.details, err = reservation.NewDetails(req.FireType, req.Temperature, req.Program, req.Note)
	if err != nil {
		return nil, errs.NewValidationError("details", err)
	}

	if req.Split != nil {
		split, err := reservation.NewSplit(req.Split)
		if err != nil {
			return nil, errs.NewValidationError("split", err)
		}
		in.split = &split
	}
	return in, nil
}

func (c *reservationCommandsImpl) save(ctx context.Context, tx shared.Tx, actor member.ActorContext, in *validated) (Outcome, error) {
	existing, err := tx.Reads().ReservationByKey(ctx, in.resourceID, in.date, true)
	if err != nil {
		return "", err
	}
	if in.ownerID == 0 {
		in.ownerID = actor.UserID()
		if existing != nil {
			in.ownerID = existing.OwnerID()
		}
	}
	if err := c.checkMembers(ctx, tx, in); err != nil {
		return "", err
	}
	now := c.tk.Now()

	if existing == nil {
		if err := reservation.AuthorizeCreate(actor, in.date, c.tk.Today()); err != nil {
			return OutcomeForbidden, nil
		}
		res, err := reservation.NewReservation(in.resourceID, in.date, in.ownerID, in.details, in.split, now)
		if err != nil {
			return "", errs.NewValidationError("reservation", err)
		}
		if _, err := tx.Reservations().Create(ctx, tx.DB(), res); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return "", errs.Mark(err, errSlotRace)
			}
			return "", err
		}
		return OutcomeOK, nil
	}

	if existing.Settled() {
		return OutcomeConflict, nil
	}
	if err := existing.AuthorizeUpdate(actor); err != nil {
		return OutcomeForbidden, nil
	}
	if err := existing.Revise(in.ownerID, in.details, in.split, now); err != nil {
		return OutcomeConflict, nil
	}
	if err := tx.Reservations().Update(ctx, tx.DB(), existing); err != nil {
		return "", err
	}
	return OutcomeOK, nil
}

func (c *reservationCommandsImpl) cancel(ctx context.Context, tx shared.Tx, actor member.ActorContext, in *validated) (Outcome, error) {
	existing, err := tx.Reads().ReservationByKey(ctx, in.resourceID, in.date, true)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return OutcomeNotFound, nil
	}
	if existing.Settled() {
		return OutcomeConflict, nil
	}
	if err := existing.AuthorizeCancel(actor, c.tk.Today()); err != nil {
		return OutcomeForbidden, nil
	}
	if err := tx.Reservations().Delete(ctx, tx.DB(), existing.ID()); err != nil {
		return "", err
	}
	return OutcomeOK, nil
}

// checkMembers rejects owners and participants unknown to the member store.
func (c *reservationCommandsImpl) checkMembers(ctx context.Context, tx shared.Tx, in *validated) error {
	ids := []int64{in.ownerID}
	if in.split != nil {
		for _, e := range in.split.Participants() {
			ids = append(ids, e.Participant)
		}
	}
	seen := make(map[int64]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.Reads().MemberByID(ctx, id); err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
			field := "split"
			if i == 0 {
				field = "owner_id"
			}
			return errs.NewValidationError(field, errs.ErrMemberNotFound)
		}
	}
	return nil
}
