package readstore

import (
	"context"
	"time"

	domtariff "kilnbook/internal/domain/tariff"
	"kilnbook/internal/infra"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"
	"kilnbook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	selectUsageRows = `
SELECT r.id, r.slot_date, r.resource_id, k.name, o.display_name, r.fire_type,
       r.temperature, r.program, s.percentage, k.standard_rate, r.settled,
       (SELECT max(a.charge) FROM settlement_audit_log a
         WHERE a.reservation_id = r.id AND a.member_id = $1 AND a.percentage = s.percentage)
  FROM reservations r
  JOIN resources k ON k.id = r.resource_id
  JOIN members o ON o.id = r.owner_id
  JOIN reservation_split_entries s ON s.reservation_id = r.id
 WHERE s.participant_id = $1 AND r.slot_date > $2
UNION ALL
SELECT r.id, r.slot_date, r.resource_id, k.name, o.display_name, r.fire_type,
       r.temperature, r.program, 100::numeric, k.standard_rate, r.settled,
       (SELECT max(a.charge) FROM settlement_audit_log a
         WHERE a.reservation_id = r.id AND a.member_id = $1)
  FROM reservations r
  JOIN resources k ON k.id = r.resource_id
  JOIN members o ON o.id = r.owner_id
 WHERE r.owner_id = $1 AND r.slot_date > $2
   AND NOT EXISTS (SELECT 1 FROM reservation_split_entries s WHERE s.reservation_id = r.id)
 ORDER BY 2, 1`

	selectMemberOverrides = `SELECT resource_id, rate FROM tariff_overrides WHERE member_id = $1`

	selectMemberView = `SELECT id, display_name, email, balance FROM members WHERE id = $1`

	selectAllMembers = `SELECT id, display_name, email, balance FROM members ORDER BY display_name, id`

	selectAuditLines = `
SELECT id, logged_at, run_id, reservation_id, member_id, slot_date, charge, old_balance, new_balance, line
  FROM settlement_audit_log
 ORDER BY logged_at DESC, id
 LIMIT $1`
)

type ReportReadStore struct {
	db db.DBTX
}

func NewReportReadStore(db db.DBTX) *ReportReadStore {
	return &ReportReadStore{db: db}
}

func (s *ReportReadStore) UsageRows(ctx context.Context, memberID int64, from time.Time) ([]queries.UsageRow, error) {
	rows, err := s.db.Query(ctx, selectUsageRows, memberID, pgconv.DateToPgtype(from))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load usage", err)
	}
	defer rows.Close()

	var out []queries.UsageRow
	for rows.Next() {
		var (
			u           queries.UsageRow
			date        pgtype.Date
			temperature pgtype.Int4
			program     pgtype.Int4
			pct, rate   pgtype.Numeric
			charged     pgtype.Numeric
		)
		if err := rows.Scan(&u.ReservationID, &date, &u.ResourceID, &u.ResourceName, &u.OwnerName, &u.FireType,
			&temperature, &program, &pct, &rate, &u.Settled, &charged); err != nil {
			return nil, infra.WrapRepoErr("failed to scan usage row", err)
		}
		u.Date = pgconv.DateFromPgtype(date)
		u.Temperature = pgconv.IntPtrFromPgtype(temperature)
		u.Program = pgconv.IntPtrFromPgtype(program)
		if u.Percentage, err = pgconv.DecimalFromNumeric(pct); err != nil {
			return nil, infra.WrapRepoErr("failed to convert percentage", err)
		}
		if u.StandardRate, err = pgconv.DecimalFromNumeric(rate); err != nil {
			return nil, infra.WrapRepoErr("failed to convert rate", err)
		}
		if u.Charged, err = pgconv.DecimalPtrFromNumeric(charged); err != nil {
			return nil, infra.WrapRepoErr("failed to convert charge", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate usage rows", err)
	}
	return out, nil
}

func (s *ReportReadStore) OverridesOf(ctx context.Context, memberID int64) (domtariff.Overrides, error) {
	rows, err := s.db.Query(ctx, selectMemberOverrides, memberID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load tariff overrides", err)
	}
	defer rows.Close()

	out := domtariff.Overrides{}
	for rows.Next() {
		var (
			resourceID int64
			rate       pgtype.Numeric
		)
		if err := rows.Scan(&resourceID, &rate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tariff override", err)
		}
		d, err := pgconv.DecimalFromNumeric(rate)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert tariff override", err)
		}
		out[domtariff.Key{MemberID: memberID, ResourceID: resourceID}] = d
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tariff overrides", err)
	}
	return out, nil
}

func (s *ReportReadStore) MemberByID(ctx context.Context, id int64) (*queries.MemberView, error) {
	var (
		m       queries.MemberView
		balance pgtype.Numeric
	)
	if err := s.db.QueryRow(ctx, selectMemberView, id).Scan(&m.ID, &m.DisplayName, &m.Email, &balance); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member", err)
	}

	var err error
	if m.Balance, err = pgconv.DecimalFromNumeric(balance); err != nil {
		return nil, infra.WrapRepoErr("failed to convert balance", err)
	}
	return &m, nil
}

func (s *ReportReadStore) ListMembers(ctx context.Context) ([]queries.MemberView, error) {
	rows, err := s.db.Query(ctx, selectAllMembers)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list members", err)
	}
	defer rows.Close()

	out := []queries.MemberView{}
	for rows.Next() {
		var (
			m       queries.MemberView
			balance pgtype.Numeric
		)
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Email, &balance); err != nil {
			return nil, infra.WrapRepoErr("failed to scan member", err)
		}
		if m.Balance, err = pgconv.DecimalFromNumeric(balance); err != nil {
			return nil, infra.WrapRepoErr("failed to convert balance", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate members", err)
	}
	return out, nil
}

func (s *ReportReadStore) AuditLines(ctx context.Context, limit int) ([]queries.AuditLine, error) {
	rows, err := s.db.Query(ctx, selectAuditLines, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load audit log", err)
	}
	defer rows.Close()

	out := []queries.AuditLine{}
	for rows.Next() {
		var (
			a                     queries.AuditLine
			loggedAt              pgtype.Timestamptz
			slotDate              pgtype.Date
			charge, before, after pgtype.Numeric
		)
		if err := rows.Scan(&a.ID, &loggedAt, &a.RunID, &a.ReservationID, &a.MemberID, &slotDate,
			&charge, &before, &after, &a.Line); err != nil {
			return nil, infra.WrapRepoErr("failed to scan audit line", err)
		}
		a.LoggedAt = pgconv.TimeFromPgtype(loggedAt)
		a.SlotDate = pgconv.DateFromPgtype(slotDate)
		if a.Charge, err = pgconv.DecimalFromNumeric(charge); err != nil {
			return nil, infra.WrapRepoErr("failed to convert charge", err)
		}
		if a.OldBalance, err = pgconv.DecimalFromNumeric(before); err != nil {
			return nil, infra.WrapRepoErr("failed to convert balance", err)
		}
		if a.NewBalance, err = pgconv.DecimalFromNumeric(after); err != nil {
			return nil, infra.WrapRepoErr("failed to convert balance", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate audit lines", err)
	}
	return out, nil
}
