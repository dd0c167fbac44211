// Package settlement charges past firings to their participants and
// reminds owners of firings that are about to be charged.
package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"kilnbook/internal/domain/ledger"
	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/infra"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/shared"
	"kilnbook/internal/usecase/tariff"

	"github.com/google/uuid"
)

//go:generate mockgen -source=scheduler.go -destination=../../mock/settlement/scheduler_mock.go -package=settlementmock

// RunReport summarizes one run. Failed reservations stay unsettled and are
// picked up again by the next run.
type RunReport struct {
	RunID          uuid.UUID `json:"run_id"`
	Today          time.Time `json:"today"`
	Settled        int       `json:"settled"`
	Skipped        int       `json:"skipped"`
	Failed         int       `json:"failed"`
	Charges        int       `json:"charges"`
	Reminded       int       `json:"reminded"`
	ReminderFailed int       `json:"reminder_failed"`
}

type Scheduler interface {
	RunOnce(ctx context.Context) (*RunReport, error)
}

type schedulerImpl struct {
	uow      shared.UnitOfWork
	resolver *tariff.Resolver
	cache    shared.MonthCache
	tk       *shared.Timekeeper
	metrics  Metrics
}

func NewScheduler(
	uow shared.UnitOfWork,
	resolver *tariff.Resolver,
	cache shared.MonthCache,
	tk *shared.Timekeeper,
	metrics Metrics,
) Scheduler {
	return &schedulerImpl{
		uow:      uow,
		resolver: resolver,
		cache:    cache,
		tk:       tk,
		metrics:  metrics,
	}
}

// RunOnce settles everything due, then sends reminders. Pass A runs first so
// a firing that is due never gets a reminder in the same run.
func (s *schedulerImpl) RunOnce(ctx context.Context) (*RunReport, error) {
	started := s.tk.Now()
	s.metrics.RunStarted()
	defer func() { s.metrics.RunFinished(s.tk.Now().Sub(started)) }()

	report := &RunReport{RunID: uuid.New(), Today: s.tk.Today()}
	logger := slog.With("run_id", report.RunID.String(), "today", formatDate(report.Today))

	if err := s.settleDue(ctx, logger, report); err != nil {
		return report, err
	}
	if err := s.remindDue(ctx, logger, report); err != nil {
		return report, err
	}

	logger.Info("settlement run finished",
		"settled", report.Settled,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"charges", report.Charges,
		"reminded", report.Reminded,
		"reminder_failed", report.ReminderFailed)
	return report, nil
}

func (s *schedulerImpl) settleDue(ctx context.Context, logger *slog.Logger, report *RunReport) error {
	ids, err := s.uow.CommandReads().SettlementDue(ctx, report.Today)
	if err != nil {
		return errs.Wrap(err, "select reservations due for settlement")
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			settled *reservation.Reservation
			charges int
		)
		err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var txErr error
			settled, charges, txErr = s.settleOne(ctx, tx, report, id)
			return txErr
		})
		switch {
		case err != nil:
			report.Failed++
			s.metrics.Reservation(ResultFailed)
			logger.Error("settlement failed, reservation left unsettled", "reservation_id", id, "error", err.Error())
		case settled == nil:
			report.Skipped++
			s.metrics.Reservation(ResultSkipped)
			logger.Info("reservation skipped, settled elsewhere or not due", "reservation_id", id)
		default:
			report.Settled++
			report.Charges += charges
			s.metrics.Reservation(ResultSettled)
			s.cache.Invalidate(ctx, shared.MonthKeyOf(settled.ResourceID(), settled.Date()))
		}
	}
	return nil
}

// settleOne moves the reservation to settled before touching any balance.
// A reservation that is gone, not yet due or claimed by another run returns
// nil.
func (s *schedulerImpl) settleOne(ctx context.Context, tx shared.Tx, report *RunReport, id int64) (*reservation.Reservation, int, error) {
	res, err := tx.Reads().ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, 0, nil
		}
		return nil, 0, errs.Wrap(err, "load reservation")
	}
	if !reservation.DueForSettlement(res.Date(), report.Today) {
		return nil, 0, nil
	}
	now := s.tk.Now()
	if err := res.MarkSettled(now); err != nil {
		return nil, 0, nil
	}

	claimed, err := tx.Reservations().ClaimSettlement(ctx, tx.DB(), id)
	if err != nil {
		return nil, 0, errs.Wrap(err, "claim reservation")
	}
	if !claimed {
		return nil, 0, nil
	}

	kiln, err := tx.Reads().ResourceByID(ctx, res.ResourceID())
	if err != nil {
		return nil, 0, errs.Wrap(err, "load kiln")
	}
	owner, err := tx.Reads().MemberByID(ctx, res.OwnerID())
	if err != nil {
		return nil, 0, errs.Wrapf(err, "load owner %d", res.OwnerID())
	}

	charges := 0
	for _, entry := range res.EffectiveSplit().Participants() {
		participant, err := tx.Reads().MemberByID(ctx, entry.Participant)
		if err != nil {
			return nil, 0, errs.Wrapf(err, "load participant %d", entry.Participant)
		}
		rate, err := s.resolver.Resolve(ctx, tx.Reads(), entry.Participant, kiln.ID(), kiln.StandardRate())
		if err != nil {
			return nil, 0, err
		}
		charge := ledger.Charge(entry.Percentage, rate)

		before, after, err := tx.Members().Debit(ctx, tx.DB(), entry.Participant, charge)
		if err != nil {
			return nil, 0, errs.Wrapf(err, "debit member %d", entry.Participant)
		}

		line := fmt.Sprintf("%s %s: %s %s%% = %s, balance %s -> %s",
			formatDate(res.Date()), kiln.Name(), participant.DisplayName,
			entry.Percentage.String(), charge.StringFixed(2),
			before.StringFixed(2), after.StringFixed(2))
		if err := tx.Audit().Append(ctx, tx.DB(), shared.AuditEntry{
			ID:            uuid.New(),
			RunID:         report.RunID,
			LoggedAt:      now,
			ReservationID: res.ID(),
			MemberID:      entry.Participant,
			SlotDate:      res.Date(),
			ResourceName:  kiln.Name(),
			Percentage:    entry.Percentage,
			Charge:        charge,
			OldBalance:    before,
			NewBalance:    after,
			Line:          line,
		}); err != nil {
			return nil, 0, errs.Wrap(err, "append audit line")
		}

		payload, err := json.Marshal(ChargeNotice{
			ReservationID:   res.ID(),
			MemberID:        participant.ID,
			MemberName:      participant.DisplayName,
			MemberEmail:     participant.Email,
			OwnerName:       owner.DisplayName,
			ResourceName:    kiln.Name(),
			SlotDate:        formatDate(res.Date()),
			Percentage:      entry.Percentage,
			Charge:          charge,
			PreviousBalance: before,
			NewBalance:      after,
		})
		if err != nil {
			return nil, 0, errs.Wrap(err, "marshal charge notice")
		}
		if err := tx.Notifications().CreateJob(ctx, tx.DB(), KindSettlementCharged, TopicSettlement, payload, now); err != nil {
			return nil, 0, errs.Wrap(err, "queue charge notice")
		}

		charges++
		s.metrics.Charge()
	}
	return res, charges, nil
}

func (s *schedulerImpl) remindDue(ctx context.Context, logger *slog.Logger, report *RunReport) error {
	ids, err := s.uow.CommandReads().ReminderDue(ctx, report.Today)
	if err != nil {
		return errs.Wrap(err, "select reservations due for reminder")
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		var res *reservation.Reservation
		err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var txErr error
			res, txErr = s.remindOne(ctx, tx, report.Today, id)
			return txErr
		})
		switch {
		case err != nil:
			report.ReminderFailed++
			s.metrics.Reminder(ResultFailed)
			logger.Error("reminder failed", "reservation_id", id, "error", err.Error())
		case res == nil:
			s.metrics.Reminder(ResultSkipped)
		default:
			report.Reminded++
			s.metrics.Reminder(ResultQueued)
			s.cache.Invalidate(ctx, shared.MonthKeyOf(res.ResourceID(), res.Date()))
		}
	}
	return nil
}

func (s *schedulerImpl) remindOne(ctx context.Context, tx shared.Tx, today time.Time, id int64) (*reservation.Reservation, error) {
	res, err := tx.Reads().ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "load reservation")
	}
	if !reservation.DueForReminder(res.Date(), today) {
		return nil, nil
	}
	if err := res.MarkNotified(s.tk.Now()); err != nil {
		return nil, nil
	}

	marked, err := tx.Reservations().MarkNotified(ctx, tx.DB(), id)
	if err != nil {
		return nil, errs.Wrap(err, "mark notified")
	}
	if !marked {
		return nil, nil
	}

	kiln, err := tx.Reads().ResourceByID(ctx, res.ResourceID())
	if err != nil {
		return nil, errs.Wrap(err, "load kiln")
	}
	owner, err := tx.Reads().MemberByID(ctx, res.OwnerID())
	if err != nil {
		return nil, errs.Wrapf(err, "load owner %d", res.OwnerID())
	}
	rate, err := s.resolver.Resolve(ctx, tx.Reads(), owner.ID, kiln.ID(), kiln.StandardRate())
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(ReminderNotice{
		ReservationID: res.ID(),
		OwnerID:       owner.ID,
		OwnerName:     owner.DisplayName,
		OwnerEmail:    owner.Email,
		ResourceName:  kiln.Name(),
		SlotDate:      formatDate(res.Date()),
		Deadline:      formatDate(res.SettlementDeadline()),
		MaxCharge:     rate.Round(2),
		OwnerCharge:   ledger.Charge(res.EffectiveSplit().ShareOf(owner.ID), rate),
	})
	if err != nil {
		return nil, errs.Wrap(err, "marshal reminder")
	}
	if err := tx.Notifications().CreateJob(ctx, tx.DB(), KindReminder, TopicReminder, payload, s.tk.Now()); err != nil {
		return nil, errs.Wrap(err, "queue reminder")
	}
	return res, nil
}
