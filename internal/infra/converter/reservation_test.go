//go:build unit

package converter_test

import (
	"testing"
	"time"

	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/infra/converter"
	"kilnbook/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newReservation(t *testing.T, split *reservation.Split) *reservation.Reservation {
	t.Helper()
	details, err := reservation.NewDetails("Gladbrand", nil, nil, nil)
	require.NoError(t, err)
	res, err := reservation.NewReservation(1, monday, 10, details, split, monday)
	require.NoError(t, err)
	return res
}

func TestSplitToRows(t *testing.T) {
	t.Run("no recorded split writes no rows", func(t *testing.T) {
		assert.Nil(t, converter.SplitToRows(newReservation(t, nil)))
	})

	t.Run("recorded split writes all five positions", func(t *testing.T) {
		split, err := reservation.NewSplit([]reservation.SplitEntry{
			{Participant: 10, Percentage: pct("60")},
			{Participant: 11, Percentage: pct("40")},
		})
		require.NoError(t, err)

		rows := converter.SplitToRows(newReservation(t, &split))

		require.Len(t, rows, reservation.SplitSlots)
		assert.Equal(t, int16(0), rows[0].Position)
		assert.Equal(t, int64(11), rows[1].ParticipantID)
		assert.Equal(t, int64(0), rows[4].ParticipantID)
		got, err := pgconv.DecimalFromNumeric(rows[1].Percentage)
		require.NoError(t, err)
		assert.True(t, got.Equal(pct("40")))
	})
}

func TestReservationToDomain(t *testing.T) {
	temp := int32(1040)
	row := converter.ReservationRow{
		ID:          7,
		ResourceID:  1,
		SlotDate:    pgtype.Date{Time: monday, Valid: true},
		OwnerID:     10,
		FireType:    "Biscuit",
		Temperature: pgtype.Int4{Int32: temp, Valid: true},
		Note:        pgtype.Text{String: "bowls", Valid: true},
		Settled:     true,
		CreatedAt:   pgtype.Timestamptz{Time: monday, Valid: true},
		UpdatedAt:   pgtype.Timestamptz{Time: monday, Valid: true},
	}

	t.Run("without split rows the owner carries the cost", func(t *testing.T) {
		res, err := converter.ReservationToDomain(row, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(7), res.ID())
		assert.Equal(t, monday, res.Date())
		assert.True(t, res.Settled())
		require.NotNil(t, res.Details().Temperature())
		assert.Equal(t, 1040, *res.Details().Temperature())
		assert.Nil(t, res.Details().Program())
		assert.Equal(t, "bowls", *res.Details().Note())

		_, recorded := res.RecordedSplit()
		assert.False(t, recorded)
		assert.True(t, res.EffectiveSplit().ShareOf(10).Equal(pct("100")))
	})

	t.Run("split rows keep their positions", func(t *testing.T) {
		rows := []converter.SplitRow{
			{Position: 0, ParticipantID: 10, Percentage: pgconv.DecimalToNumeric(pct("33.33"))},
			{Position: 2, ParticipantID: 12, Percentage: pgconv.DecimalToNumeric(pct("66.67"))},
			{Position: 1, ParticipantID: 0, Percentage: pgconv.DecimalToNumeric(decimal.Zero)},
			{Position: 9, ParticipantID: 99, Percentage: pgconv.DecimalToNumeric(pct("5"))},
		}

		res, err := converter.ReservationToDomain(row, rows)
		require.NoError(t, err)

		split, recorded := res.RecordedSplit()
		require.True(t, recorded)
		entries := split.Entries()
		assert.Equal(t, int64(12), entries[2].Participant)
		assert.True(t, entries[2].Percentage.Equal(pct("66.67")))
		assert.True(t, entries[1].Empty())
		assert.True(t, split.ShareOf(99).IsZero())
	})

	t.Run("invalid numeric fails the conversion", func(t *testing.T) {
		rows := []converter.SplitRow{{Position: 0, ParticipantID: 10, Percentage: pgtype.Numeric{NaN: true, Valid: true}}}

		_, err := converter.ReservationToDomain(row, rows)
		assert.ErrorIs(t, err, pgconv.ErrInvalidNumeric)
	})
}
