//go:build unit

package queries_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"kilnbook/internal/domain/calendar"
	"kilnbook/internal/domain/member"
	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/pkg/clock"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/testutil/memstore"
	"kilnbook/internal/usecase/queries"
	"kilnbook/internal/usecase/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	anna = int64(1)
	bram = int64(2)
	cor  = int64(3)
)

var (
	// Wednesday 12 March 2025.
	today = time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)

	asAnna  = member.NewActorContext(anna)
	asBram  = member.NewActorContext(bram)
	asAdmin = member.NewActorContext(cor, member.CapabilityOverride)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func march(day int) time.Time { return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC) }

func timekeeper() *shared.Timekeeper {
	return shared.NewTimekeeper(clock.NewMockClock(today), time.UTC)
}

// jsonCache round-trips through JSON like the Redis cache does.
type jsonCache struct {
	entries map[shared.MonthKey][]byte
	loads   int
	hits    int
}

func newJSONCache() *jsonCache { return &jsonCache{entries: map[shared.MonthKey][]byte{}} }

func (c *jsonCache) Load(_ context.Context, key shared.MonthKey, dst any) bool {
	c.loads++
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	c.hits++
	return json.Unmarshal(raw, dst) == nil
}

func (c *jsonCache) Store(_ context.Context, key shared.MonthKey, v any) {
	raw, _ := json.Marshal(v)
	c.entries[key] = raw
}

func (c *jsonCache) Invalidate(_ context.Context, key shared.MonthKey) { delete(c.entries, key) }

type calendarFixture struct {
	store *memstore.Store
	kiln  int64
}

func newCalendarFixture(t *testing.T) calendarFixture {
	t.Helper()
	store := memstore.New()
	store.AddMember(anna, "Anna", decimal.Zero)
	store.AddMember(bram, "Bram", decimal.Zero)
	store.AddMember(cor, "Cor", decimal.Zero)
	return calendarFixture{store: store, kiln: store.AddResource("Nabertherm", dec("10.00"))}
}

func (f calendarFixture) put(t *testing.T, day int, owner int64, settled bool, entries ...reservation.SplitEntry) {
	t.Helper()
	temp := 1060
	details, err := reservation.NewDetails("Gladbrand", &temp, nil, nil)
	require.NoError(t, err)
	var split *reservation.Split
	if entries != nil {
		sp, err := reservation.NewSplit(entries)
		require.NoError(t, err)
		split = &sp
	}
	f.store.PutReservation(reservation.ReconstructReservation(0, f.kiln, march(day), owner, details, split, false, settled, today, today))
}

func slot(t *testing.T, view *queries.MonthView, day int) queries.SlotView {
	t.Helper()
	for _, s := range view.Slots {
		if s.Day == day {
			return s
		}
	}
	t.Fatalf("no slot for day %d", day)
	return queries.SlotView{}
}

func TestCalendarQueries_RenderMonth(t *testing.T) {
	ctx := context.Background()

	t.Run("success: empty month lists every eligible date", func(t *testing.T) {
		f := newCalendarFixture(t)
		q := queries.NewCalendarQueries(f.store.CalendarStore(), shared.NewNoopMonthCache(), timekeeper())

		view, err := q.RenderMonth(ctx, asAnna, f.kiln, 2025, 3)

		require.NoError(t, err)
		assert.Equal(t, "Nabertherm", view.ResourceName)
		assert.Equal(t, queries.MonthLink{Year: 2025, Month: 2}, view.Prev)
		assert.Equal(t, queries.MonthLink{Year: 2025, Month: 4}, view.Next)
		require.Len(t, view.Slots, 13)

		past := slot(t, view, 10)
		assert.True(t, past.Past)
		assert.False(t, past.Editable)
		assert.Equal(t, calendar.StatePast, past.State)

		open := slot(t, view, 12)
		assert.False(t, open.Past, "today is bookable")
		assert.True(t, open.Editable)
		assert.Equal(t, calendar.StateOpen, open.State)
		assert.Equal(t, "lightblue", open.Color)
		assert.Equal(t, "Biscuit", open.FireType)
		require.Len(t, open.Split, reservation.SplitSlots)
		assert.Equal(t, anna, open.Split[0].ParticipantID, "open slot proposes the viewer at 100%")
		assert.True(t, dec("100").Equal(open.Split[0].Percentage))
	})

	t.Run("success: booked slots are rendered per actor", func(t *testing.T) {
		f := newCalendarFixture(t)
		f.put(t, 14, anna, false, reservation.SplitEntry{Participant: anna, Percentage: dec("60")}, reservation.SplitEntry{Participant: bram, Percentage: dec("40")})
		f.put(t, 10, anna, false)
		q := queries.NewCalendarQueries(f.store.CalendarStore(), shared.NewNoopMonthCache(), timekeeper())

		own, err := q.RenderMonth(ctx, asAnna, f.kiln, 2025, 3)
		require.NoError(t, err)
		s := slot(t, own, 14)
		assert.True(t, s.Booked)
		assert.Equal(t, "Anna", s.OwnerName)
		assert.Equal(t, "Gladbrand", s.FireType)
		assert.Equal(t, 1060, *s.Temperature)
		assert.Equal(t, calendar.StateOwn, s.State)
		assert.Equal(t, "green", s.Color)
		assert.True(t, s.Editable)
		assert.True(t, s.Deletable)
		assert.Equal(t, "Bram", s.Split[1].ParticipantName)

		pastOwn := slot(t, own, 10)
		assert.True(t, pastOwn.Editable, "owner may still correct a past unsettled firing")
		assert.False(t, pastOwn.Deletable)
		assert.Equal(t, anna, pastOwn.Split[0].ParticipantID, "no recorded split shows the owner at 100%")
		assert.True(t, dec("100").Equal(pastOwn.Split[0].Percentage))

		other, err := q.RenderMonth(ctx, asBram, f.kiln, 2025, 3)
		require.NoError(t, err)
		s = slot(t, other, 14)
		assert.Equal(t, calendar.StateOther, s.State)
		assert.Equal(t, "red", s.Color)
		assert.False(t, s.Editable)
		assert.False(t, s.Deletable)

		admin, err := q.RenderMonth(ctx, asAdmin, f.kiln, 2025, 3)
		require.NoError(t, err)
		assert.True(t, slot(t, admin, 10).Deletable)
	})

	t.Run("success: settled slots are frozen", func(t *testing.T) {
		f := newCalendarFixture(t)
		f.put(t, 3, anna, true)
		q := queries.NewCalendarQueries(f.store.CalendarStore(), shared.NewNoopMonthCache(), timekeeper())

		view, err := q.RenderMonth(ctx, asAdmin, f.kiln, 2025, 3)

		require.NoError(t, err)
		s := slot(t, view, 3)
		assert.True(t, s.Settled)
		assert.False(t, s.Editable)
		assert.False(t, s.Deletable)
	})

	t.Run("success: rows are served from cache until invalidated", func(t *testing.T) {
		f := newCalendarFixture(t)
		f.put(t, 14, anna, false)
		cache := newJSONCache()
		q := queries.NewCalendarQueries(f.store.CalendarStore(), cache, timekeeper())

		_, err := q.RenderMonth(ctx, asAnna, f.kiln, 2025, 3)
		require.NoError(t, err)
		f.put(t, 17, bram, false)

		cached, err := q.RenderMonth(ctx, asBram, f.kiln, 2025, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, cache.hits)
		assert.False(t, slot(t, cached, 17).Booked)
		assert.Equal(t, calendar.StateOther, slot(t, cached, 14).State, "actor fields are computed after the cache")

		cache.Invalidate(ctx, shared.MonthKeyOf(f.kiln, march(17)))
		fresh, err := q.RenderMonth(ctx, asBram, f.kiln, 2025, 3)
		require.NoError(t, err)
		assert.True(t, slot(t, fresh, 17).Booked)
	})

	t.Run("error: unknown kiln", func(t *testing.T) {
		f := newCalendarFixture(t)
		q := queries.NewCalendarQueries(f.store.CalendarStore(), shared.NewNoopMonthCache(), timekeeper())

		_, err := q.RenderMonth(ctx, asAnna, 99, 2025, 3)
		assert.ErrorIs(t, err, errs.ErrResourceNotFound)
	})

	t.Run("error: invalid month", func(t *testing.T) {
		f := newCalendarFixture(t)
		q := queries.NewCalendarQueries(f.store.CalendarStore(), shared.NewNoopMonthCache(), timekeeper())

		_, err := q.RenderMonth(ctx, asAnna, f.kiln, 2025, 13)
		assert.True(t, errs.Is(err, errs.ErrDomainValidation))
		assert.ErrorIs(t, err, calendar.ErrInvalidMonth)
	})
}
