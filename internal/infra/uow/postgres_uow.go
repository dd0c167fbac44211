package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/domain/resource"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/infra/repository"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// retryPolicy bounds how often a transaction is replayed after postgres
// aborted it for a serialization failure or a deadlock.
type retryPolicy struct {
	attempts int
	base     time.Duration
}

var defaultRetry = retryPolicy{attempts: 4, base: 100 * time.Millisecond}

// backoff doubles per attempt and adds up to 20% jitter.
func (p retryPolicy) backoff(attempt int) time.Duration {
	wait := p.base << attempt
	return wait + time.Duration(rand.Int64N(int64(wait)/5+1))
}

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool  *pgxpool.Pool
	retry retryPolicy
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool, retry: defaultRetry}
}

// Within runs fn in a read committed transaction. Booking and settlement
// lock the rows they change with FOR UPDATE, so read committed is enough.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var err error
	for attempt := range u.retry.attempts {
		err = u.once(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt == u.retry.attempts-1 {
			break
		}

		wait := u.retry.backoff(attempt)
		slog.Warn("retrying transaction",
			"attempt", attempt+1,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	slog.Error("transaction failed after max retries", "attempts", u.retry.attempts, "error", err.Error())
	return errs.Mark(err, errMaxRetriesExceeded)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// once runs a single attempt; the rollback happens before the caller sleeps
// so a retried transaction never holds a connection while waiting.
func (u *PostgresUoW) once(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = fn(ctx, &pgTx{dbtx: pgxTx})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", rbErr.Error())
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return true
	}
	return false
}

type pgTx struct {
	dbtx pgx.Tx

	reservationRepo  shared.ReservationRepository
	memberRepo       shared.MemberRepository
	resourceRepo     shared.ResourceRepository
	tariffRepo       shared.TariffRepository
	auditRepo        shared.AuditRepository
	notificationRepo shared.NotificationRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository()
	}
	return t.reservationRepo
}

func (t *pgTx) Members() shared.MemberRepository {
	if t.memberRepo == nil {
		t.memberRepo = repository.NewMemberRepository()
	}
	return t.memberRepo
}

func (t *pgTx) Resources() shared.ResourceRepository {
	if t.resourceRepo == nil {
		t.resourceRepo = repository.NewResourceRepository()
	}
	return t.resourceRepo
}

func (t *pgTx) Tariffs() shared.TariffRepository {
	if t.tariffRepo == nil {
		t.tariffRepo = repository.NewTariffRepository()
	}
	return t.tariffRepo
}

func (t *pgTx) Audit() shared.AuditRepository {
	if t.auditRepo == nil {
		t.auditRepo = repository.NewAuditRepository()
	}
	return t.auditRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository()
	}
	return t.notificationRepo
}

// Reads run on the transaction so row locks and own writes are visible.
func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX
}

func (r *commandReads) ResourceByID(ctx context.Context, id int64) (*resource.Resource, error) {
	return repository.FindResourceByID(ctx, r.dbtx, id)
}

func (r *commandReads) ReservationByKey(ctx context.Context, resourceID int64, date time.Time, forUpdate bool) (*reservation.Reservation, error) {
	return repository.FindReservationByKey(ctx, r.dbtx, resourceID, date, forUpdate)
}

func (r *commandReads) ReservationByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	return repository.FindReservationByID(ctx, r.dbtx, id)
}

func (r *commandReads) MemberByID(ctx context.Context, id int64) (*shared.MemberSnapshot, error) {
	return repository.FindMemberByID(ctx, r.dbtx, id)
}

func (r *commandReads) OverrideRate(ctx context.Context, memberID, resourceID int64) (*decimal.Decimal, error) {
	return repository.FindOverrideRate(ctx, r.dbtx, memberID, resourceID)
}

func (r *commandReads) SettlementDue(ctx context.Context, today time.Time) ([]int64, error) {
	return repository.FindSettlementDue(ctx, r.dbtx, reservation.SettlementCutoff(today))
}

func (r *commandReads) ReminderDue(ctx context.Context, today time.Time) ([]int64, error) {
	return repository.FindReminderDue(ctx, r.dbtx, today)
}
