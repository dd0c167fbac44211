//go:build e2e

package repository_test

import (
	"context"
	"testing"
	"time"

	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/domain/resource"
	"kilnbook/internal/infra"
	"kilnbook/internal/infra/repository"
	"kilnbook/internal/testutil/dbtest"
	"kilnbook/internal/testutil/e2e"
	"kilnbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RepositoryE2ESuite struct {
	suite.Suite
	pool *pgxpool.Pool
	ctx  context.Context
}

func (s *RepositoryE2ESuite) SetupSuite() {
	info := e2e.StartPostgres(s.T())
	s.pool, _ = e2e.PrepareDatabase(s.T(), info)
	s.ctx = context.Background()
}

func (s *RepositoryE2ESuite) SetupSubTest() {
	s.Require().NoError(dbtest.ResetDB(s.pool))
}

func TestRepositoryE2ESuite(t *testing.T) {
	suite.Run(t, new(RepositoryE2ESuite))
}

var (
	monday    = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	friday    = time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	nextMon   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	created   = time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (s *RepositoryE2ESuite) seed() (kiln int64) {
	dbtest.CreateMember(s.T(), s.pool, 1, "anna", "20")
	dbtest.CreateMember(s.T(), s.pool, 2, "bram", "0")
	return dbtest.CreateResource(s.T(), s.pool, "Big kiln", "10")
}

func (s *RepositoryE2ESuite) newReservation(kiln int64, date time.Time, split *reservation.Split) *reservation.Reservation {
	temp := 1060
	details, err := reservation.NewDetails("Gladbrand", &temp, nil, nil)
	s.Require().NoError(err)
	res, err := reservation.NewReservation(kiln, date, 1, details, split, created)
	s.Require().NoError(err)
	return res
}

func (s *RepositoryE2ESuite) TestReservationRepository() {
	repo := repository.NewReservationRepository()

	s.Run("create and find round-trips details and split", func() {
		kiln := s.seed()
		split, err := reservation.NewSplit([]reservation.SplitEntry{
			{Participant: 1, Percentage: dec("60")},
			{Participant: 2, Percentage: dec("40")},
		})
		s.Require().NoError(err)

		id, err := repo.Create(s.ctx, s.pool, s.newReservation(kiln, monday, &split))
		s.Require().NoError(err)
		s.Positive(id)
		s.Equal(5, dbtest.Count(s.T(), s.pool, "reservation_split_entries"))

		got, err := repository.FindReservationByID(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.Equal(kiln, got.ResourceID())
		s.True(monday.Equal(got.Date()), "date %s", got.Date())
		s.Equal("Gladbrand", got.Details().FireType().String())
		s.Require().NotNil(got.Details().Temperature())
		s.Equal(1060, *got.Details().Temperature())

		recorded, ok := got.RecordedSplit()
		s.Require().True(ok)
		s.True(dec("60").Equal(recorded.ShareOf(1)))
		s.True(dec("40").Equal(recorded.ShareOf(2)))
	})

	s.Run("without a split the owner carries everything", func() {
		kiln := s.seed()
		id, err := repo.Create(s.ctx, s.pool, s.newReservation(kiln, monday, nil))
		s.Require().NoError(err)
		s.Equal(0, dbtest.Count(s.T(), s.pool, "reservation_split_entries"))

		got, err := repository.FindReservationByID(s.ctx, s.pool, id)
		s.Require().NoError(err)
		_, ok := got.RecordedSplit()
		s.False(ok)
		s.True(dec("100").Equal(got.EffectiveSplit().ShareOf(1)))
	})

	s.Run("second booking of the same slot is a duplicate key", func() {
		kiln := s.seed()
		_, err := repo.Create(s.ctx, s.pool, s.newReservation(kiln, monday, nil))
		s.Require().NoError(err)

		_, err = repo.Create(s.ctx, s.pool, s.newReservation(kiln, monday, nil))
		s.True(infra.IsKind(err, infra.KindDuplicateKey), "got %v", err)
	})

	s.Run("find by key returns nil for a free slot", func() {
		kiln := s.seed()
		got, err := repository.FindReservationByKey(s.ctx, s.pool, kiln, wednesday, false)
		s.NoError(err)
		s.Nil(got)
	})

	s.Run("find by id reports not found", func() {
		_, err := repository.FindReservationByID(s.ctx, s.pool, 404)
		s.True(infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})

	s.Run("update replaces the split", func() {
		kiln := s.seed()
		split, err := reservation.NewSplit([]reservation.SplitEntry{{Participant: 1, Percentage: dec("100")}})
		s.Require().NoError(err)
		id, err := repo.Create(s.ctx, s.pool, s.newReservation(kiln, monday, &split))
		s.Require().NoError(err)

		res, err := repository.FindReservationByKey(s.ctx, s.pool, kiln, monday, false)
		s.Require().NoError(err)
		s.Require().NotNil(res)
		s.Equal(id, res.ID())

		revised, err := reservation.NewSplit([]reservation.SplitEntry{
			{Participant: 2, Percentage: dec("70")},
			{Participant: 1, Percentage: dec("30")},
		})
		s.Require().NoError(err)
		details, err := reservation.NewDetails("Biscuit", nil, nil, nil)
		s.Require().NoError(err)
		s.Require().NoError(res.Revise(2, details, &revised, created.Add(time.Hour)))
		s.Require().NoError(repo.Update(s.ctx, s.pool, res))

		got, err := repository.FindReservationByID(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.Equal(int64(2), got.OwnerID())
		s.Nil(got.Details().Temperature())
		recorded, ok := got.RecordedSplit()
		s.Require().True(ok)
		s.True(dec("70").Equal(recorded.ShareOf(2)))
		s.True(dec("30").Equal(recorded.ShareOf(1)))
		s.Equal(5, dbtest.Count(s.T(), s.pool, "reservation_split_entries"))
	})

	s.Run("delete removes the split rows too", func() {
		kiln := s.seed()
		id := dbtest.CreateReservation(s.T(), s.pool, kiln, monday, 1, dbtest.Share{Participant: 1, Percentage: "100"})

		s.Require().NoError(repo.Delete(s.ctx, s.pool, id))
		s.Equal(0, dbtest.Count(s.T(), s.pool, "reservations"))
		s.Equal(0, dbtest.Count(s.T(), s.pool, "reservation_split_entries"))

		err := repo.Delete(s.ctx, s.pool, id)
		s.True(infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})

	s.Run("settlement is claimed exactly once", func() {
		kiln := s.seed()
		id := dbtest.CreateReservation(s.T(), s.pool, kiln, monday, 1)

		claimed, err := repo.ClaimSettlement(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.True(claimed)

		claimed, err = repo.ClaimSettlement(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.False(claimed)

		_, settled := dbtest.ReservationFlags(s.T(), s.pool, id)
		s.True(settled)
	})

	s.Run("a settled reservation is frozen", func() {
		kiln := s.seed()
		id := dbtest.CreateReservation(s.T(), s.pool, kiln, monday, 1, dbtest.Share{Participant: 1, Percentage: "100"})
		dbtest.MarkSettled(s.T(), s.pool, id)

		res, err := repository.FindReservationByID(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.True(res.Settled())

		err = repo.Delete(s.ctx, s.pool, id)
		s.True(infra.IsKind(err, infra.KindNotFound), "got %v", err)

		_, err = s.pool.Exec(s.ctx, "UPDATE reservations SET note = 'late' WHERE id = $1", id)
		s.Error(err)
		_, err = s.pool.Exec(s.ctx, "DELETE FROM reservation_split_entries WHERE reservation_id = $1", id)
		s.Error(err)

		marked, err := repo.MarkNotified(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.False(marked)
	})

	s.Run("mark notified only flips once", func() {
		kiln := s.seed()
		id := dbtest.CreateReservation(s.T(), s.pool, kiln, monday, 1)

		marked, err := repo.MarkNotified(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.True(marked)

		marked, err = repo.MarkNotified(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.False(marked)
	})
}

func (s *RepositoryE2ESuite) TestDueQueries() {
	s.Run("settlement due is inclusive of the cutoff and ordered by date", func() {
		kiln := s.seed()
		other := dbtest.CreateResource(s.T(), s.pool, "Test kiln", "4")
		fri := dbtest.CreateReservation(s.T(), s.pool, kiln, friday, 1)
		mon := dbtest.CreateReservation(s.T(), s.pool, other, monday, 1)
		wed := dbtest.CreateReservation(s.T(), s.pool, kiln, wednesday, 2)
		settled := dbtest.CreateReservation(s.T(), s.pool, kiln, monday, 1)
		dbtest.MarkSettled(s.T(), s.pool, settled)
		dbtest.CreateReservation(s.T(), s.pool, kiln, nextMon, 1)

		ids, err := repository.FindSettlementDue(s.ctx, s.pool, friday)
		s.Require().NoError(err)
		s.Equal([]int64{mon, wed, fri}, ids)
	})

	s.Run("reminders skip today, notified and settled rows", func() {
		kiln := s.seed()
		mon := dbtest.CreateReservation(s.T(), s.pool, kiln, monday, 1)
		wed := dbtest.CreateReservation(s.T(), s.pool, kiln, wednesday, 1)
		dbtest.CreateReservation(s.T(), s.pool, kiln, friday, 1)
		_, err := repository.NewReservationRepository().MarkNotified(s.ctx, s.pool, wed)
		s.Require().NoError(err)

		ids, err := repository.FindReminderDue(s.ctx, s.pool, friday)
		s.Require().NoError(err)
		s.Equal([]int64{mon}, ids)
	})
}

func (s *RepositoryE2ESuite) TestMemberRepository() {
	repo := repository.NewMemberRepository()

	s.Run("debit returns the balance before and after", func() {
		s.seed()

		before, after, err := repo.Debit(s.ctx, s.pool, 1, dec("6.25"))
		s.Require().NoError(err)
		s.True(dec("20").Equal(before), "before %s", before)
		s.True(dec("13.75").Equal(after), "after %s", after)
		s.True(dec("13.75").Equal(dbtest.Balance(s.T(), s.pool, 1)))
	})

	s.Run("balances may go negative", func() {
		s.seed()

		_, after, err := repo.Debit(s.ctx, s.pool, 2, dec("3.5"))
		s.Require().NoError(err)
		s.True(dec("-3.5").Equal(after))
	})

	s.Run("debit of an unknown member is not found", func() {
		_, _, err := repo.Debit(s.ctx, s.pool, 99, dec("1"))
		s.True(infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})

	s.Run("find returns the snapshot", func() {
		s.seed()

		m, err := repository.FindMemberByID(s.ctx, s.pool, 1)
		s.Require().NoError(err)
		s.Equal("anna", m.DisplayName)
		s.Equal("anna@example.org", m.Email)
		s.True(dec("20").Equal(m.Balance))
	})
}

func (s *RepositoryE2ESuite) TestResourceRepository() {
	repo := repository.NewResourceRepository()

	s.Run("create, change rate and find", func() {
		r, err := resource.NewResource("Big kiln", dec("10"), created)
		s.Require().NoError(err)
		id, err := repo.Create(s.ctx, s.pool, r)
		s.Require().NoError(err)

		found, err := repository.FindResourceByID(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.Require().NoError(found.ChangeRate(dec("12.5"), created.Add(time.Hour)))
		s.Require().NoError(repo.UpdateRate(s.ctx, s.pool, found))

		found, err = repository.FindResourceByID(s.ctx, s.pool, id)
		s.Require().NoError(err)
		s.Equal("Big kiln", found.Name())
		s.True(dec("12.5").Equal(found.StandardRate()))
	})

	s.Run("a taken name is a duplicate key", func() {
		dbtest.CreateResource(s.T(), s.pool, "Big kiln", "10")
		r, err := resource.NewResource("Big kiln", dec("8"), created)
		s.Require().NoError(err)

		_, err = repo.Create(s.ctx, s.pool, r)
		s.True(infra.IsKind(err, infra.KindDuplicateKey), "got %v", err)
	})

	s.Run("unknown kiln is not found", func() {
		_, err := repository.FindResourceByID(s.ctx, s.pool, 404)
		s.True(infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})
}

func (s *RepositoryE2ESuite) TestTariffRepository() {
	repo := repository.NewTariffRepository()

	s.Run("upsert overwrites and delete reports removal", func() {
		kiln := s.seed()

		rate, err := repository.FindOverrideRate(s.ctx, s.pool, 2, kiln)
		s.Require().NoError(err)
		s.Nil(rate)

		s.Require().NoError(repo.Upsert(s.ctx, s.pool, 2, kiln, dec("7")))
		s.Require().NoError(repo.Upsert(s.ctx, s.pool, 2, kiln, dec("7.5")))

		rate, err = repository.FindOverrideRate(s.ctx, s.pool, 2, kiln)
		s.Require().NoError(err)
		s.Require().NotNil(rate)
		s.True(dec("7.5").Equal(*rate))

		removed, err := repo.Delete(s.ctx, s.pool, 2, kiln)
		s.Require().NoError(err)
		s.True(removed)

		removed, err = repo.Delete(s.ctx, s.pool, 2, kiln)
		s.Require().NoError(err)
		s.False(removed)
	})

	s.Run("override for an unknown member violates the foreign key", func() {
		kiln := s.seed()

		err := repo.Upsert(s.ctx, s.pool, 99, kiln, dec("7"))
		s.True(infra.IsKind(err, infra.KindForeignKeyViolated), "got %v", err)
	})
}

func (s *RepositoryE2ESuite) TestAuditRepository() {
	s.Run("entries append but never change", func() {
		entry := shared.AuditEntry{
			ID:            uuid.New(),
			RunID:         uuid.New(),
			LoggedAt:      created,
			ReservationID: 7,
			MemberID:      2,
			SlotDate:      monday,
			ResourceName:  "Big kiln",
			Percentage:    dec("40"),
			Charge:        dec("4"),
			OldBalance:    dec("0"),
			NewBalance:    dec("-4"),
			Line:          "2025-03-03 Big kiln: bram 40.00% = 4.00, balance 0.00 -> -4.00",
		}
		s.Require().NoError(repository.NewAuditRepository().Append(s.ctx, s.pool, entry))
		s.Equal(1, dbtest.Count(s.T(), s.pool, "settlement_audit_log"))

		_, err := s.pool.Exec(s.ctx, "UPDATE settlement_audit_log SET charge = 0 WHERE id = $1", entry.ID)
		s.Error(err)
		_, err = s.pool.Exec(s.ctx, "DELETE FROM settlement_audit_log WHERE id = $1", entry.ID)
		s.Error(err)
	})
}

func (s *RepositoryE2ESuite) TestNotificationRepository() {
	repo := repository.NewNotificationRepository()
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

	s.Run("claims due queued jobs in run order", func() {
		s.Require().NoError(repo.CreateJob(s.ctx, s.pool, "reminder", "kiln.reminders", []byte(`{"n":2}`), now.Add(-time.Minute)))
		s.Require().NoError(repo.CreateJob(s.ctx, s.pool, "reminder", "kiln.reminders", []byte(`{"n":1}`), now.Add(-time.Hour)))
		s.Require().NoError(repo.CreateJob(s.ctx, s.pool, "reminder", "kiln.reminders", []byte(`{"n":3}`), now.Add(time.Hour)))

		jobs, err := repo.ClaimQueued(s.ctx, s.pool, now, 10)
		s.Require().NoError(err)
		s.Require().Len(jobs, 2)
		s.JSONEq(`{"n":1}`, string(jobs[0].Payload))
		s.JSONEq(`{"n":2}`, string(jobs[1].Payload))
		s.Equal("kiln.reminders", jobs[0].Topic)
	})

	s.Run("sent and failed jobs are no longer claimed", func() {
		s.Require().NoError(repo.CreateJob(s.ctx, s.pool, "reminder", "kiln.reminders", []byte(`{}`), now.Add(-time.Minute)))
		s.Require().NoError(repo.CreateJob(s.ctx, s.pool, "reminder", "kiln.reminders", []byte(`{}`), now.Add(-time.Minute)))

		jobs, err := repo.ClaimQueued(s.ctx, s.pool, now, 10)
		s.Require().NoError(err)
		s.Require().Len(jobs, 2)

		s.Require().NoError(repo.UpdateJobStatus(s.ctx, s.pool, jobs[0].ID, shared.JobStatusSent, nil))
		reason := "broker down"
		s.Require().NoError(repo.UpdateJobStatus(s.ctx, s.pool, jobs[1].ID, shared.JobStatusFailed, &reason))

		jobs, err = repo.ClaimQueued(s.ctx, s.pool, now, 10)
		s.Require().NoError(err)
		s.Empty(jobs)

		var attempts int
		s.Require().NoError(s.pool.QueryRow(s.ctx, "SELECT sum(attempts) FROM notification_jobs").Scan(&attempts))
		s.Equal(2, attempts)
	})
}
