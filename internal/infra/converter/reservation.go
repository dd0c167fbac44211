package converter

import (
	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/domain/resource"
	"kilnbook/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// ReservationRow mirrors a reservations row.
type ReservationRow struct {
	ID          int64
	ResourceID  int64
	SlotDate    pgtype.Date
	OwnerID     int64
	FireType    string
	Temperature pgtype.Int4
	Program     pgtype.Int4
	Note        pgtype.Text
	Notified    bool
	Settled     bool
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

// ScanTargets lists the fields in the column order of reservationColumns.
func (r *ReservationRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.ResourceID, &r.SlotDate, &r.OwnerID, &r.FireType,
		&r.Temperature, &r.Program, &r.Note, &r.Notified, &r.Settled,
		&r.CreatedAt, &r.UpdatedAt,
	}
}

type SplitRow struct {
	Position      int16
	ParticipantID int64
	Percentage    pgtype.Numeric
}

// ReservationToDomain rebuilds the aggregate. No split rows means no split was recorded.
func ReservationToDomain(row ReservationRow, splitRows []SplitRow) (*reservation.Reservation, error) {
	details := reservation.ReconstructDetails(
		reservation.FireType(row.FireType),
		pgconv.IntPtrFromPgtype(row.Temperature),
		pgconv.IntPtrFromPgtype(row.Program),
		pgconv.StringPtrFromPgtype(row.Note),
	)

	var split *reservation.Split
	if len(splitRows) > 0 {
		s, err := SplitFromRows(splitRows)
		if err != nil {
			return nil, err
		}
		split = &s
	}

	return reservation.ReconstructReservation(
		row.ID,
		row.ResourceID,
		pgconv.DateFromPgtype(row.SlotDate),
		row.OwnerID,
		details,
		split,
		row.Notified,
		row.Settled,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func SplitFromRows(rows []SplitRow) (reservation.Split, error) {
	var s reservation.Split
	for _, row := range rows {
		if row.Position < 0 || int(row.Position) >= reservation.SplitSlots {
			continue
		}
		pct, err := pgconv.DecimalFromNumeric(row.Percentage)
		if err != nil {
			return s, err
		}
		s[row.Position] = reservation.SplitEntry{Participant: row.ParticipantID, Percentage: pct}
	}
	return s, nil
}

// SplitToRows returns all five positions, empty ones included, or nil when
// the reservation has no recorded split.
func SplitToRows(res *reservation.Reservation) []SplitRow {
	split, ok := res.RecordedSplit()
	if !ok {
		return nil
	}
	rows := make([]SplitRow, 0, reservation.SplitSlots)
	for i, e := range split.Entries() {
		rows = append(rows, SplitRow{
			Position:      int16(i),
			ParticipantID: e.Participant,
			Percentage:    pgconv.DecimalToNumeric(e.Percentage),
		})
	}
	return rows
}

type ResourceRow struct {
	ID           int64
	Name         string
	StandardRate pgtype.Numeric
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

func ResourceToDomain(row ResourceRow) (*resource.Resource, error) {
	rate, err := pgconv.DecimalFromNumeric(row.StandardRate)
	if err != nil {
		return nil, err
	}
	return resource.ReconstructResource(
		row.ID,
		row.Name,
		rate,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
