package queries

import (
	"context"
	"time"

	"kilnbook/internal/domain/calendar"
	"kilnbook/internal/domain/member"
	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/infra"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=calendar.go -destination=../../mock/queries/calendar_mock.go -package=queriesmock

type CalendarReadStore interface {
	ResourceByID(ctx context.Context, id int64) (*ResourceView, error)
	// MonthBookings returns the reservations of a kiln dated within [from, to].
	MonthBookings(ctx context.Context, resourceID int64, from, to time.Time) ([]BookingRow, error)
}

type CalendarQueries interface {
	RenderMonth(ctx context.Context, actor member.ActorContext, resourceID int64, year, month int) (*MonthView, error)
}

type calendarQueriesImpl struct {
	store CalendarReadStore
	cache shared.MonthCache
	tk    *shared.Timekeeper
}

func NewCalendarQueries(store CalendarReadStore, cache shared.MonthCache, tk *shared.Timekeeper) CalendarQueries {
	return &calendarQueriesImpl{store: store, cache: cache, tk: tk}
}

func (q *calendarQueriesImpl) RenderMonth(ctx context.Context, actor member.ActorContext, resourceID int64, year, month int) (*MonthView, error) {
	ref, err := calendar.NewMonthRef(year, month)
	if err != nil {
		return nil, errs.NewValidationError("month", err)
	}

	res, err := q.store.ResourceByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrResourceNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	bookings, err := q.loadBookings(ctx, resourceID, ref)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int]BookingRow, len(bookings))
	for _, b := range bookings {
		byDay[b.Date.Day()] = b
	}

	today := q.tk.Today()
	prev, next := ref.Prev(), ref.Next()
	view := &MonthView{
		ResourceID:   res.ID,
		ResourceName: res.Name,
		Year:         ref.Year,
		Month:        int(ref.Month),
		Prev:         MonthLink{Year: prev.Year, Month: int(prev.Month)},
		Next:         MonthLink{Year: next.Year, Month: int(next.Month)},
	}

	for _, date := range ref.EligibleDates() {
		if b, ok := byDay[date.Day()]; ok {
			view.Slots = append(view.Slots, bookedSlot(actor, b, today))
			continue
		}
		view.Slots = append(view.Slots, openSlot(actor, date, today))
	}

	return view, nil
}

// loadBookings reads through the month cache. Rows are cached without any
// actor-specific fields.
func (q *calendarQueriesImpl) loadBookings(ctx context.Context, resourceID int64, ref calendar.MonthRef) ([]BookingRow, error) {
	key := shared.MonthKey{ResourceID: resourceID, Year: ref.Year, Month: ref.Month}

	var cached []BookingRow
	if q.cache.Load(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := q.store.MonthBookings(ctx, resourceID, ref.First(), ref.Last())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	q.cache.Store(ctx, key, rows)
	return rows, nil
}

func openSlot(actor member.ActorContext, date, today time.Time) SlotView {
	past := calendar.IsPast(date, today)
	perms := reservation.OpenSlotPermissions(actor, date, today)
	state := calendar.StateFor(false, false, past)

	return SlotView{
		Date:      date,
		Day:       date.Day(),
		Weekday:   date.Weekday().String(),
		FireType:  reservation.DefaultFireType.String(),
		Split:     padSplit([]SplitEntryView{{ParticipantID: actor.UserID(), Percentage: decimal.NewFromInt(100)}}),
		Past:      past,
		Editable:  perms.Editable,
		Deletable: perms.Deletable,
		State:     state,
		Color:     state.Color(),
	}
}

func bookedSlot(actor member.ActorContext, b BookingRow, today time.Time) SlotView {
	past := calendar.IsPast(b.Date, today)
	perms := reservation.BookedSlotPermissions(actor, b.OwnerID, b.Settled, b.Date, today)
	state := calendar.StateFor(true, b.OwnerID == actor.UserID(), past)

	split := b.Split
	if len(split) == 0 {
		split = []SplitEntryView{{ParticipantID: b.OwnerID, ParticipantName: b.OwnerName, Percentage: decimal.NewFromInt(100)}}
	}

	return SlotView{
		Date:          b.Date,
		Day:           b.Date.Day(),
		Weekday:       b.Date.Weekday().String(),
		Booked:        true,
		ReservationID: b.ReservationID,
		OwnerID:       b.OwnerID,
		OwnerName:     b.OwnerName,
		FireType:      b.FireType,
		Temperature:   b.Temperature,
		Program:       b.Program,
		Note:          b.Note,
		Split:         padSplit(split),
		Notified:      b.Notified,
		Settled:       b.Settled,
		Past:          past,
		Editable:      perms.Editable,
		Deletable:     perms.Deletable,
		State:         state,
		Color:         state.Color(),
	}
}

func padSplit(entries []SplitEntryView) []SplitEntryView {
	out := make([]SplitEntryView, reservation.SplitSlots)
	copy(out, entries)
	for i := len(entries); i < len(out); i++ {
		out[i] = SplitEntryView{Percentage: decimal.Zero}
	}
	return out
}
