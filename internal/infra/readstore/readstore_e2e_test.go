//go:build e2e

package readstore_test

import (
	"context"
	"testing"
	"time"

	domtariff "kilnbook/internal/domain/tariff"
	"kilnbook/internal/infra"
	"kilnbook/internal/infra/readstore"
	"kilnbook/internal/infra/repository"
	"kilnbook/internal/testutil/dbtest"
	"kilnbook/internal/testutil/e2e"
	"kilnbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReadStoreE2ESuite struct {
	suite.Suite
	pool *pgxpool.Pool
	ctx  context.Context
}

func (s *ReadStoreE2ESuite) SetupSuite() {
	info := e2e.StartPostgres(s.T())
	s.pool, _ = e2e.PrepareDatabase(s.T(), info)
	s.ctx = context.Background()
}

func (s *ReadStoreE2ESuite) SetupSubTest() {
	s.Require().NoError(dbtest.ResetDB(s.pool))
}

func TestReadStoreE2ESuite(t *testing.T) {
	suite.Run(t, new(ReadStoreE2ESuite))
}

func day(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (s *ReadStoreE2ESuite) seed() (big, small int64) {
	dbtest.CreateMember(s.T(), s.pool, 1, "anna", "20")
	dbtest.CreateMember(s.T(), s.pool, 2, "bram", "-3.5")
	dbtest.CreateMember(s.T(), s.pool, 3, "cor", "0")
	big = dbtest.CreateResource(s.T(), s.pool, "Big kiln", "10")
	small = dbtest.CreateResource(s.T(), s.pool, "Anagama", "4")
	return big, small
}

func (s *ReadStoreE2ESuite) TestCalendarReadStore() {
	store := readstore.NewCalendarReadStore(s.pool)

	s.Run("month bookings carry owner names and split names", func() {
		big, small := s.seed()
		withSplit := dbtest.CreateReservation(s.T(), s.pool, big, day(5), 1,
			dbtest.Share{Participant: 1, Percentage: "60"},
			dbtest.Share{Participant: 2, Percentage: "40"})
		noSplit := dbtest.CreateReservation(s.T(), s.pool, big, day(3), 2)
		dbtest.CreateReservation(s.T(), s.pool, big, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 1)
		dbtest.CreateReservation(s.T(), s.pool, small, day(5), 3)

		rows, err := store.MonthBookings(s.ctx, big, day(1), day(31))
		s.Require().NoError(err)
		s.Require().Len(rows, 2)

		s.Equal(noSplit, rows[0].ReservationID)
		s.Equal("bram", rows[0].OwnerName)
		s.True(day(3).Equal(rows[0].Date))
		s.Empty(rows[0].Split)
		s.Equal("Biscuit", rows[0].FireType)

		s.Equal(withSplit, rows[1].ReservationID)
		s.Require().Len(rows[1].Split, 5)
		s.Equal("anna", rows[1].Split[0].ParticipantName)
		s.Equal("bram", rows[1].Split[1].ParticipantName)
		s.True(dec("40").Equal(rows[1].Split[1].Percentage))
		s.Equal(int64(0), rows[1].Split[2].ParticipantID)
		s.Empty(rows[1].Split[2].ParticipantName)
	})

	s.Run("empty month returns no rows", func() {
		big, _ := s.seed()

		rows, err := store.MonthBookings(s.ctx, big, day(1), day(31))
		s.Require().NoError(err)
		s.Empty(rows)
	})

	s.Run("resource view and not found", func() {
		big, _ := s.seed()

		v, err := store.ResourceByID(s.ctx, big)
		s.Require().NoError(err)
		s.Equal("Big kiln", v.Name)
		s.True(dec("10").Equal(v.StandardRate))
		s.False(v.CreatedAt.IsZero())

		_, err = store.ResourceByID(s.ctx, 404)
		s.True(infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})
}

func (s *ReadStoreE2ESuite) TestReportReadStore() {
	store := readstore.NewReportReadStore(s.pool)

	s.Run("usage covers split shares and unsplit ownership after the start date", func() {
		big, small := s.seed()
		shared1 := dbtest.CreateReservation(s.T(), s.pool, big, day(5), 2,
			dbtest.Share{Participant: 2, Percentage: "50"},
			dbtest.Share{Participant: 1, Percentage: "50"})
		owned := dbtest.CreateReservation(s.T(), s.pool, small, day(3), 1)
		dbtest.CreateReservation(s.T(), s.pool, big, day(3), 3)
		dbtest.CreateReservation(s.T(), s.pool, big, time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), 1)
		dbtest.MarkSettled(s.T(), s.pool, owned)
		s.Require().NoError(repository.NewAuditRepository().Append(s.ctx, s.pool, shared.AuditEntry{
			ID: uuid.New(), RunID: uuid.New(), LoggedAt: day(7), ReservationID: owned, MemberID: 1,
			SlotDate: day(3), ResourceName: "Anagama", Percentage: dec("100"), Charge: dec("3.50"),
			OldBalance: dec("0"), NewBalance: dec("-3.50"), Line: "line",
		}))

		rows, err := store.UsageRows(s.ctx, 1, time.Date(2024, 9, 12, 0, 0, 0, 0, time.UTC))
		s.Require().NoError(err)
		s.Require().Len(rows, 2)

		s.Equal(owned, rows[0].ReservationID)
		s.Equal("Anagama", rows[0].ResourceName)
		s.True(dec("100").Equal(rows[0].Percentage))
		s.True(dec("4").Equal(rows[0].StandardRate))
		s.True(rows[0].Settled)
		s.Require().NotNil(rows[0].Charged)
		s.True(dec("3.50").Equal(*rows[0].Charged))

		s.Equal(shared1, rows[1].ReservationID)
		s.Equal("bram", rows[1].OwnerName)
		s.True(dec("50").Equal(rows[1].Percentage))
		s.False(rows[1].Settled)
		s.Nil(rows[1].Charged)
	})

	s.Run("overrides of one member", func() {
		big, small := s.seed()
		dbtest.SetOverride(s.T(), s.pool, 1, big, "7.5")
		dbtest.SetOverride(s.T(), s.pool, 2, small, "1")

		got, err := store.OverridesOf(s.ctx, 1)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.True(dec("7.5").Equal(got[domtariff.Key{MemberID: 1, ResourceID: big}]))
	})

	s.Run("members are listed by name", func() {
		s.seed()

		members, err := store.ListMembers(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(members, 3)
		s.Equal([]string{"anna", "bram", "cor"}, []string{members[0].DisplayName, members[1].DisplayName, members[2].DisplayName})
		s.True(dec("-3.5").Equal(members[1].Balance))

		m, err := store.MemberByID(s.ctx, 2)
		s.Require().NoError(err)
		s.Equal("bram@example.org", m.Email)

		_, err = store.MemberByID(s.ctx, 99)
		s.True(infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})

	s.Run("audit lines newest first up to the limit", func() {
		run := uuid.New()
		audit := repository.NewAuditRepository()
		base := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
		for i := range 3 {
			s.Require().NoError(audit.Append(s.ctx, s.pool, shared.AuditEntry{
				ID:            uuid.New(),
				RunID:         run,
				LoggedAt:      base.Add(time.Duration(i) * time.Second),
				ReservationID: int64(i + 1),
				MemberID:      1,
				SlotDate:      day(3),
				ResourceName:  "Big kiln",
				Percentage:    dec("100"),
				Charge:        dec("10"),
				OldBalance:    dec("20"),
				NewBalance:    dec("10"),
				Line:          "line",
			}))
		}

		lines, err := store.AuditLines(s.ctx, 2)
		s.Require().NoError(err)
		s.Require().Len(lines, 2)
		s.Equal(int64(3), lines[0].ReservationID)
		s.Equal(int64(2), lines[1].ReservationID)
		s.Equal(run, lines[0].RunID)
		s.True(dec("10").Equal(lines[0].NewBalance))
	})
}

func (s *ReadStoreE2ESuite) TestResourceReadStore() {
	store := readstore.NewResourceReadStore(s.pool)

	s.Run("kilns by name and overrides with names", func() {
		big, _ := s.seed()
		dbtest.SetOverride(s.T(), s.pool, 3, big, "6")

		kilns, err := store.ListResources(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(kilns, 2)
		s.Equal("Anagama", kilns[0].Name)
		s.Equal("Big kiln", kilns[1].Name)

		overrides, err := store.ListOverrides(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(overrides, 1)
		s.Equal("cor", overrides[0].MemberName)
		s.Equal("Big kiln", overrides[0].ResourceName)
		s.True(dec("6").Equal(overrides[0].Rate))
	})
}
