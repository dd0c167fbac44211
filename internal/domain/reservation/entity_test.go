//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"kilnbook/internal/domain/calendar"
	"kilnbook/internal/domain/member"
	"kilnbook/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday    = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	now       = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	owner    = member.NewActorContext(1)
	stranger = member.NewActorContext(2)
	admin    = member.NewActorContext(3, member.CapabilityOverride)
)

func booked(t *testing.T, date time.Time, split *reservation.Split) *reservation.Reservation {
	t.Helper()
	details, err := reservation.NewDetails("", nil, nil, nil)
	require.NoError(t, err)
	r, err := reservation.NewReservation(1, date, owner.UserID(), details, split, now)
	require.NoError(t, err)
	return r
}

func TestNewReservation(t *testing.T) {
	details, err := reservation.NewDetails("Gladbrand", nil, nil, nil)
	require.NoError(t, err)

	t.Run("without split the owner pays everything", func(t *testing.T) {
		r, err := reservation.NewReservation(1, monday, 1, details, nil, now)
		require.NoError(t, err)

		_, recorded := r.RecordedSplit()
		assert.False(t, recorded)
		assert.Equal(t, reservation.DefaultSplit(1), r.EffectiveSplit())
		assert.False(t, r.Notified())
		assert.False(t, r.Settled())
		assert.Equal(t, monday.AddDate(0, 0, reservation.GraceDays), r.SettlementDeadline())
	})

	t.Run("recorded split is kept", func(t *testing.T) {
		s, err := reservation.NewSplit([]reservation.SplitEntry{entry(1, "60"), entry(2, "40")})
		require.NoError(t, err)
		r, err := reservation.NewReservation(1, monday, 1, details, &s, now)
		require.NoError(t, err)

		got, recorded := r.RecordedSplit()
		assert.True(t, recorded)
		assert.True(t, pct("40").Equal(got.ShareOf(2)))
	})

	t.Run("rejects", func(t *testing.T) {
		_, err := reservation.NewReservation(0, monday, 1, details, nil, now)
		assert.ErrorIs(t, err, reservation.ErrInvalidResource)
		_, err = reservation.NewReservation(1, monday, 0, details, nil, now)
		assert.ErrorIs(t, err, reservation.ErrInvalidOwner)
		_, err = reservation.NewReservation(1, monday.AddDate(0, 0, 1), 1, details, nil, now)
		assert.ErrorIs(t, err, calendar.ErrIneligibleWeekday)
	})
}

func TestReservationLifecycle(t *testing.T) {
	r := booked(t, monday, nil)

	require.NoError(t, r.MarkNotified(now))
	assert.True(t, r.Notified())
	assert.ErrorIs(t, r.MarkNotified(now), reservation.ErrAlreadyNotified)

	require.NoError(t, r.MarkSettled(now))
	assert.True(t, r.Settled())

	assert.ErrorIs(t, r.MarkSettled(now), reservation.ErrSettled)
	assert.ErrorIs(t, r.MarkNotified(now), reservation.ErrSettled)
	assert.ErrorIs(t, r.Revise(1, r.Details(), nil, now), reservation.ErrSettled)
	assert.ErrorIs(t, r.AuthorizeUpdate(admin), reservation.ErrSettled)
	assert.ErrorIs(t, r.AuthorizeCancel(admin, monday), reservation.ErrSettled)
}

func TestRevise(t *testing.T) {
	s, err := reservation.NewSplit([]reservation.SplitEntry{entry(1, "50"), entry(2, "50")})
	require.NoError(t, err)
	r := booked(t, monday, &s)

	details, err := reservation.NewDetails("Overig", nil, nil, nil)
	require.NoError(t, err)
	later := now.Add(time.Hour)

	require.NoError(t, r.Revise(2, details, nil, later))
	assert.Equal(t, int64(2), r.OwnerID())
	assert.Equal(t, reservation.FireTypeOther, r.Details().FireType())
	_, recorded := r.RecordedSplit()
	assert.False(t, recorded, "a revision without split clears the recorded one")
	assert.Equal(t, later, r.UpdatedAt())

	assert.ErrorIs(t, r.Revise(0, details, nil, later), reservation.ErrInvalidOwner)
}

func TestPermissions(t *testing.T) {
	today := wednesday

	tests := []struct {
		name      string
		actor     member.ActorContext
		date      time.Time
		settled   bool
		editable  bool
		deletable bool
	}{
		{name: "owner, future", actor: owner, date: today.AddDate(0, 0, 2), editable: true, deletable: true},
		{name: "owner, today", actor: owner, date: today, editable: true, deletable: true},
		{name: "owner, past", actor: owner, date: monday, editable: true, deletable: false},
		{name: "stranger", actor: stranger, date: today.AddDate(0, 0, 2)},
		{name: "override, past", actor: admin, date: monday, editable: true, deletable: true},
		{name: "settled is frozen", actor: admin, date: monday, settled: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := reservation.BookedSlotPermissions(tt.actor, owner.UserID(), tt.settled, tt.date, today)
			assert.Equal(t, reservation.Permissions{Editable: tt.editable, Deletable: tt.deletable}, p)
		})
	}

	t.Run("open slots", func(t *testing.T) {
		assert.Equal(t, reservation.Permissions{Editable: true}, reservation.OpenSlotPermissions(stranger, today, today))
		assert.Equal(t, reservation.Permissions{}, reservation.OpenSlotPermissions(stranger, monday, today))
		assert.Equal(t, reservation.Permissions{Editable: true}, reservation.OpenSlotPermissions(admin, monday, today))

		assert.NoError(t, reservation.AuthorizeCreate(stranger, today, today))
		assert.ErrorIs(t, reservation.AuthorizeCreate(stranger, monday, today), reservation.ErrNotPermitted)
		assert.NoError(t, reservation.AuthorizeCreate(admin, monday, today))
	})

	t.Run("authorize on the entity", func(t *testing.T) {
		r := booked(t, monday, nil)
		assert.NoError(t, r.AuthorizeUpdate(owner))
		assert.ErrorIs(t, r.AuthorizeUpdate(stranger), reservation.ErrNotPermitted)
		assert.ErrorIs(t, r.AuthorizeCancel(owner, today), reservation.ErrNotPermitted)
		assert.NoError(t, r.AuthorizeCancel(owner, monday))
		assert.NoError(t, r.AuthorizeCancel(admin, today))
	})
}

func TestSettlementWindow(t *testing.T) {
	today := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), reservation.SettlementCutoff(today))
	assert.True(t, reservation.DueForSettlement(monday, today), "four days ago is due")
	assert.False(t, reservation.DueForSettlement(wednesday, today), "two days ago is still in grace")

	assert.True(t, reservation.DueForReminder(wednesday, today))
	assert.False(t, reservation.DueForReminder(today, today))
}

func TestNewDetails(t *testing.T) {
	intp := func(v int) *int { return &v }
	strp := func(v string) *string { return &v }

	d, err := reservation.NewDetails("", intp(1000), intp(3), strp("  glazuur  "))
	require.NoError(t, err)
	assert.Equal(t, reservation.DefaultFireType, d.FireType())
	assert.Equal(t, "glazuur", *d.Note())

	d, err = reservation.NewDetails("Biscuit", nil, nil, strp("   "))
	require.NoError(t, err)
	assert.Nil(t, d.Note(), "blank note is dropped")

	tests := []struct {
		name     string
		fireType string
		temp     *int
		program  *int
		note     *string
		errIs    error
	}{
		{name: "unknown fire type", fireType: "Raku", errIs: reservation.ErrInvalidFireType},
		{name: "too cold", temp: intp(reservation.MinTemperature - 1), errIs: reservation.ErrTemperatureOutOfRange},
		{name: "too hot", temp: intp(reservation.MaxTemperature + 1), errIs: reservation.ErrTemperatureOutOfRange},
		{name: "program out of range", program: intp(100), errIs: reservation.ErrProgramOutOfRange},
		{name: "long note", note: strp("abcdefghijklmnopqrstuvwxyz"), errIs: reservation.ErrNoteTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reservation.NewDetails(tt.fireType, tt.temp, tt.program, tt.note)
			assert.ErrorIs(t, err, tt.errIs)
		})
	}
}
