package repository

import (
	"context"

	"kilnbook/internal/infra"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"
	"kilnbook/internal/usecase/shared"
)

const insertAuditEntry = `
INSERT INTO settlement_audit_log
    (id, logged_at, run_id, reservation_id, member_id, slot_date, resource_name,
     percentage, charge, old_balance, new_balance, line)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// AuditRepository only appends; the table rejects updates and deletes.
type AuditRepository struct{}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Append(ctx context.Context, tx db.DBTX, e shared.AuditEntry) error {
	_, err := tx.Exec(ctx, insertAuditEntry,
		e.ID,
		pgconv.TimeToPgtype(e.LoggedAt),
		e.RunID,
		e.ReservationID,
		e.MemberID,
		pgconv.DateToPgtype(e.SlotDate),
		e.ResourceName,
		pgconv.DecimalToNumeric(e.Percentage),
		pgconv.DecimalToNumeric(e.Charge),
		pgconv.DecimalToNumeric(e.OldBalance),
		pgconv.DecimalToNumeric(e.NewBalance),
		e.Line,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append audit entry", err)
	}
	return nil
}
