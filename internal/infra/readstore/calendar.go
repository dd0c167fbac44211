package readstore

import (
	"context"
	"time"

	"kilnbook/internal/infra"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"
	"kilnbook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	selectResourceView = `SELECT id, name, standard_rate, created_at, updated_at FROM resources WHERE id = $1`

	selectMonthBookings = `
SELECT r.id, r.resource_id, r.slot_date, r.owner_id, o.display_name, r.fire_type,
       r.temperature, r.program, r.note, r.notified, r.settled
  FROM reservations r
  JOIN members o ON o.id = r.owner_id
 WHERE r.resource_id = $1 AND r.slot_date BETWEEN $2 AND $3
 ORDER BY r.slot_date`

	selectSplitViews = `
SELECT s.reservation_id, s.participant_id, COALESCE(m.display_name, ''), s.percentage
  FROM reservation_split_entries s
  LEFT JOIN members m ON m.id = s.participant_id
 WHERE s.reservation_id = ANY($1)
 ORDER BY s.reservation_id, s.position`
)

type CalendarReadStore struct {
	db db.DBTX
}

func NewCalendarReadStore(db db.DBTX) *CalendarReadStore {
	return &CalendarReadStore{db: db}
}

func (s *CalendarReadStore) ResourceByID(ctx context.Context, id int64) (*queries.ResourceView, error) {
	var (
		v         queries.ResourceView
		rate      pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, selectResourceView, id).Scan(&v.ID, &v.Name, &rate, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("kiln not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find kiln", err)
	}

	if v.StandardRate, err = pgconv.DecimalFromNumeric(rate); err != nil {
		return nil, infra.WrapRepoErr("failed to convert kiln rate", err)
	}
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}

func (s *CalendarReadStore) MonthBookings(ctx context.Context, resourceID int64, from, to time.Time) ([]queries.BookingRow, error) {
	rows, err := s.db.Query(ctx, selectMonthBookings, resourceID, pgconv.DateToPgtype(from), pgconv.DateToPgtype(to))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load month bookings", err)
	}
	defer rows.Close()

	var (
		bookings []queries.BookingRow
		ids      []int64
	)
	for rows.Next() {
		var (
			b           queries.BookingRow
			date        pgtype.Date
			temperature pgtype.Int4
			program     pgtype.Int4
			note        pgtype.Text
		)
		if err := rows.Scan(&b.ReservationID, &b.ResourceID, &date, &b.OwnerID, &b.OwnerName, &b.FireType,
			&temperature, &program, &note, &b.Notified, &b.Settled); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		b.Date = pgconv.DateFromPgtype(date)
		b.Temperature = pgconv.IntPtrFromPgtype(temperature)
		b.Program = pgconv.IntPtrFromPgtype(program)
		b.Note = pgconv.StringPtrFromPgtype(note)
		bookings = append(bookings, b)
		ids = append(ids, b.ReservationID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	if len(ids) == 0 {
		return bookings, nil
	}

	splits, err := s.splitViews(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Split = splits[bookings[i].ReservationID]
	}
	return bookings, nil
}

func (s *CalendarReadStore) splitViews(ctx context.Context, reservationIDs []int64) (map[int64][]queries.SplitEntryView, error) {
	rows, err := s.db.Query(ctx, selectSplitViews, reservationIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load split entries", err)
	}
	defer rows.Close()

	out := make(map[int64][]queries.SplitEntryView, len(reservationIDs))
	for rows.Next() {
		var (
			reservationID int64
			v             queries.SplitEntryView
			pct           pgtype.Numeric
		)
		if err := rows.Scan(&reservationID, &v.ParticipantID, &v.ParticipantName, &pct); err != nil {
			return nil, infra.WrapRepoErr("failed to scan split entry", err)
		}
		if v.Percentage, err = pgconv.DecimalFromNumeric(pct); err != nil {
			return nil, infra.WrapRepoErr("failed to convert split percentage", err)
		}
		out[reservationID] = append(out[reservationID], v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate split entries", err)
	}
	return out, nil
}
