package repository

import (
	"context"
	"time"

	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/infra"
	"kilnbook/internal/infra/converter"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"
)

const reservationColumns = `id, resource_id, slot_date, owner_id, fire_type, temperature, program, note, notified, settled, created_at, updated_at`

const (
	insertReservation = `
INSERT INTO reservations (resource_id, slot_date, owner_id, fire_type, temperature, program, note, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id`

	updateReservation = `
UPDATE reservations
   SET owner_id = $2, fire_type = $3, temperature = $4, program = $5, note = $6, updated_at = $7
 WHERE id = $1 AND settled = false`

	deleteReservation = `DELETE FROM reservations WHERE id = $1 AND settled = false`

	deleteSplitEntries = `DELETE FROM reservation_split_entries WHERE reservation_id = $1`

	insertSplitEntry = `
INSERT INTO reservation_split_entries (reservation_id, position, participant_id, percentage)
VALUES ($1, $2, $3, $4)`

	claimSettlement = `
UPDATE reservations SET settled = true, updated_at = now()
 WHERE id = $1 AND settled = false`

	markNotified = `
UPDATE reservations SET notified = true, updated_at = now()
 WHERE id = $1 AND notified = false AND settled = false`

	selectReservationByID = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	selectReservationByKey = `SELECT ` + reservationColumns + ` FROM reservations WHERE resource_id = $1 AND slot_date = $2`

	selectSplitEntries = `
SELECT position, participant_id, percentage
  FROM reservation_split_entries
 WHERE reservation_id = $1
 ORDER BY position`
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) (int64, error) {
	d := res.Details()
	var id int64
	err := tx.QueryRow(ctx, insertReservation,
		res.ResourceID(),
		pgconv.DateToPgtype(res.Date()),
		res.OwnerID(),
		d.FireType().String(),
		pgconv.IntPtrToPgtype(d.Temperature()),
		pgconv.IntPtrToPgtype(d.Program()),
		pgconv.StringPtrToPgtype(d.Note()),
		pgconv.TimeToPgtype(res.CreatedAt()),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to create reservation", err)
	}

	if err := r.writeSplit(ctx, tx, id, converter.SplitToRows(res)); err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces the fields and every split row.
func (r *ReservationRepository) Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	d := res.Details()
	tag, err := tx.Exec(ctx, updateReservation,
		res.ID(),
		res.OwnerID(),
		d.FireType().String(),
		pgconv.IntPtrToPgtype(d.Temperature()),
		pgconv.IntPtrToPgtype(d.Program()),
		pgconv.StringPtrToPgtype(d.Note()),
		pgconv.TimeToPgtype(res.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found or settled", nil, infra.KindNotFound)
	}

	if _, err := tx.Exec(ctx, deleteSplitEntries, res.ID()); err != nil {
		return infra.WrapRepoErr("failed to clear split entries", err)
	}
	return r.writeSplit(ctx, tx, res.ID(), converter.SplitToRows(res))
}

func (r *ReservationRepository) Delete(ctx context.Context, tx db.DBTX, id int64) error {
	tag, err := tx.Exec(ctx, deleteReservation, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found or settled", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) ClaimSettlement(ctx context.Context, tx db.DBTX, id int64) (bool, error) {
	tag, err := tx.Exec(ctx, claimSettlement, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim reservation for settlement", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepository) MarkNotified(ctx context.Context, tx db.DBTX, id int64) (bool, error) {
	tag, err := tx.Exec(ctx, markNotified, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark reservation notified", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepository) writeSplit(ctx context.Context, tx db.DBTX, id int64, rows []converter.SplitRow) error {
	for _, row := range rows {
		if _, err := tx.Exec(ctx, insertSplitEntry, id, row.Position, row.ParticipantID, row.Percentage); err != nil {
			return infra.WrapRepoErr("failed to write split entry", err)
		}
	}
	return nil
}

func FindReservationByID(ctx context.Context, q db.DBTX, id int64) (*reservation.Reservation, error) {
	return findReservation(ctx, q, selectReservationByID, id)
}

// FindReservationByKey returns nil, nil when the slot is free. forUpdate locks
// the row until the surrounding transaction ends.
func FindReservationByKey(ctx context.Context, q db.DBTX, resourceID int64, date time.Time, forUpdate bool) (*reservation.Reservation, error) {
	query := selectReservationByKey
	if forUpdate {
		query += " FOR UPDATE"
	}
	res, err := findReservation(ctx, q, query, resourceID, pgconv.DateToPgtype(date))
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, nil
	}
	return res, err
}

func findReservation(ctx context.Context, q db.DBTX, query string, args ...any) (*reservation.Reservation, error) {
	var row converter.ReservationRow
	if err := q.QueryRow(ctx, query, args...).Scan(row.ScanTargets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	rows, err := q.Query(ctx, selectSplitEntries, row.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load split entries", err)
	}
	defer rows.Close()

	var splitRows []converter.SplitRow
	for rows.Next() {
		var sr converter.SplitRow
		if err := rows.Scan(&sr.Position, &sr.ParticipantID, &sr.Percentage); err != nil {
			return nil, infra.WrapRepoErr("failed to scan split entry", err)
		}
		splitRows = append(splitRows, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate split entries", err)
	}

	res, err := converter.ReservationToDomain(row, splitRows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert reservation", err)
	}
	return res, nil
}

const (
	selectSettlementDue = `
SELECT id FROM reservations
 WHERE settled = false AND slot_date <= $1
 ORDER BY slot_date, id`

	selectReminderDue = `
SELECT id FROM reservations
 WHERE notified = false AND settled = false AND slot_date < $1
 ORDER BY slot_date, id`
)

// FindSettlementDue lists unsettled reservations dated on or before cutoff.
func FindSettlementDue(ctx context.Context, q db.DBTX, cutoff time.Time) ([]int64, error) {
	return selectIDs(ctx, q, selectSettlementDue, pgconv.DateToPgtype(cutoff))
}

// FindReminderDue lists past reservations whose owner has not been reminded.
func FindReminderDue(ctx context.Context, q db.DBTX, today time.Time) ([]int64, error) {
	return selectIDs(ctx, q, selectReminderDue, pgconv.DateToPgtype(today))
}

func selectIDs(ctx context.Context, q db.DBTX, query string, args ...any) ([]int64, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select reservation ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation ids", err)
	}
	return ids, nil
}
