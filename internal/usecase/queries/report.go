package queries

import (
	"context"
	"time"

	"kilnbook/internal/domain/ledger"
	"kilnbook/internal/domain/member"
	domtariff "kilnbook/internal/domain/tariff"
	"kilnbook/internal/infra"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=report.go -destination=../../mock/queries/report_mock.go -package=queriesmock

const (
	UsageMonths     = 6
	DefaultAuditMax = 100
	MaxAuditLimit   = 1000
)

type ReportReadStore interface {
	// UsageRows lists every share the member holds in firings dated after from.
	// A reservation without recorded split counts as its owner at 100%.
	UsageRows(ctx context.Context, memberID int64, from time.Time) ([]UsageRow, error)
	OverridesOf(ctx context.Context, memberID int64) (domtariff.Overrides, error)
	MemberByID(ctx context.Context, id int64) (*MemberView, error)
	ListMembers(ctx context.Context) ([]MemberView, error)
	AuditLines(ctx context.Context, limit int) ([]AuditLine, error)
}

type ReportQueries interface {
	UsageReport(ctx context.Context, actor member.ActorContext) (*UsageReport, error)
	MyBalance(ctx context.Context, actor member.ActorContext) (*MemberView, error)
	BalanceOverview(ctx context.Context, actor member.ActorContext) ([]MemberView, error)
	AuditLog(ctx context.Context, actor member.ActorContext, limit int) ([]AuditLine, error)
}

type reportQueriesImpl struct {
	store ReportReadStore
	tk    *shared.Timekeeper
}

func NewReportQueries(store ReportReadStore, tk *shared.Timekeeper) ReportQueries {
	return &reportQueriesImpl{store: store, tk: tk}
}

// UsageReport shows settled shares at the amount actually debited and prices
// the rest at the member's current rate. Those lines are provisional: the
// rate may still change before settlement.
func (q *reportQueriesImpl) UsageReport(ctx context.Context, actor member.ActorContext) (*UsageReport, error) {
	from := q.tk.Today().AddDate(0, -UsageMonths, 0)

	rows, err := q.store.UsageRows(ctx, actor.UserID(), from)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	overrides, err := q.store.OverridesOf(ctx, actor.UserID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	report := &UsageReport{
		MemberID:         actor.UserID(),
		From:             from,
		Lines:            make([]UsageLine, 0, len(rows)),
		TotalCharged:     decimal.Zero,
		TotalProvisional: decimal.Zero,
	}
	for _, row := range rows {
		rate := overrides.Resolve(actor.UserID(), row.ResourceID, row.StandardRate)
		charge := ledger.Charge(row.Percentage, rate)
		if row.Settled && row.Charged != nil {
			charge = *row.Charged
		}

		report.Lines = append(report.Lines, UsageLine{
			ReservationID: row.ReservationID,
			Date:          row.Date,
			ResourceName:  row.ResourceName,
			OwnerName:     row.OwnerName,
			FireType:      row.FireType,
			Temperature:   row.Temperature,
			Program:       row.Program,
			Percentage:    row.Percentage,
			Charge:        charge,
			Provisional:   !row.Settled,
		})
		if row.Settled {
			report.TotalCharged = report.TotalCharged.Add(charge)
		} else {
			report.TotalProvisional = report.TotalProvisional.Add(charge)
		}
	}
	return report, nil
}

func (q *reportQueriesImpl) MyBalance(ctx context.Context, actor member.ActorContext) (*MemberView, error) {
	m, err := q.store.MemberByID(ctx, actor.UserID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrMemberNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return m, nil
}

func (q *reportQueriesImpl) BalanceOverview(ctx context.Context, actor member.ActorContext) ([]MemberView, error) {
	if !actor.CanOverride() {
		return nil, errs.ErrCapabilityRequired
	}
	members, err := q.store.ListMembers(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return members, nil
}

// AuditLog returns the newest lines first.
func (q *reportQueriesImpl) AuditLog(ctx context.Context, actor member.ActorContext, limit int) ([]AuditLine, error) {
	if !actor.CanOverride() {
		return nil, errs.ErrCapabilityRequired
	}
	if limit <= 0 {
		limit = DefaultAuditMax
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}
	lines, err := q.store.AuditLines(ctx, limit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return lines, nil
}
