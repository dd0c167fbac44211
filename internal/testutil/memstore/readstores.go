//go:build unit

package memstore

import (
	"context"
	"sort"
	"time"

	domtariff "kilnbook/internal/domain/tariff"
	"kilnbook/internal/usecase/queries"

	"github.com/shopspring/decimal"
)

// CalendarStore, ReportStore and ResourceStore read the same state the
// unit of work writes, ordered the way the SQL read stores order rows.
func (s *Store) CalendarStore() queries.CalendarReadStore { return &calendarStore{s: s} }
func (s *Store) ReportStore() queries.ReportReadStore     { return &reportStore{s: s} }
func (s *Store) ResourceStore() queries.ResourceReadStore { return &resourceStore{s: s} }

func (s *Store) memberName(id int64) string {
	if m, ok := s.st.members[id]; ok {
		return m.DisplayName
	}
	return ""
}

type calendarStore struct{ s *Store }

func (c *calendarStore) ResourceByID(_ context.Context, id int64) (*queries.ResourceView, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	res, ok := c.s.st.resources[id]
	if !ok {
		return nil, notFound("kiln not found")
	}
	return &queries.ResourceView{
		ID:           res.ID(),
		Name:         res.Name(),
		StandardRate: res.StandardRate(),
		CreatedAt:    res.CreatedAt(),
		UpdatedAt:    res.UpdatedAt(),
	}, nil
}

func (c *calendarStore) MonthBookings(_ context.Context, resourceID int64, from, to time.Time) ([]queries.BookingRow, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var rows []queries.BookingRow
	for _, r := range c.s.st.sortedReservations() {
		if r.ResourceID() != resourceID || r.Date().Before(from) || r.Date().After(to) {
			continue
		}
		d := r.Details()
		row := queries.BookingRow{
			ReservationID: r.ID(),
			ResourceID:    r.ResourceID(),
			Date:          r.Date(),
			OwnerID:       r.OwnerID(),
			OwnerName:     c.s.memberName(r.OwnerID()),
			FireType:      d.FireType().String(),
			Temperature:   d.Temperature(),
			Program:       d.Program(),
			Note:          d.Note(),
			Notified:      r.Notified(),
			Settled:       r.Settled(),
		}
		if split, ok := r.RecordedSplit(); ok {
			for _, e := range split.Entries() {
				row.Split = append(row.Split, queries.SplitEntryView{
					ParticipantID:   e.Participant,
					ParticipantName: c.s.memberName(e.Participant),
					Percentage:      e.Percentage,
				})
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type reportStore struct{ s *Store }

func (r *reportStore) UsageRows(_ context.Context, memberID int64, from time.Time) ([]queries.UsageRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var rows []queries.UsageRow
	for _, res := range r.s.st.sortedReservations() {
		if !res.Date().After(from) {
			continue
		}
		kiln := r.s.st.resources[res.ResourceID()]
		for _, e := range res.EffectiveSplit().Participants() {
			if e.Participant != memberID {
				continue
			}
			d := res.Details()
			rows = append(rows, queries.UsageRow{
				ReservationID: res.ID(),
				Date:          res.Date(),
				ResourceID:    res.ResourceID(),
				ResourceName:  kiln.Name(),
				OwnerName:     r.s.memberName(res.OwnerID()),
				FireType:      d.FireType().String(),
				Temperature:   d.Temperature(),
				Program:       d.Program(),
				Percentage:    e.Percentage,
				StandardRate:  kiln.StandardRate(),
				Settled:       res.Settled(),
				Charged:       r.s.st.recordedCharge(res.ID(), memberID, e.Percentage),
			})
		}
	}
	return rows, nil
}

func (r *reportStore) OverridesOf(_ context.Context, memberID int64) (domtariff.Overrides, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := domtariff.Overrides{}
	for k, v := range r.s.st.overrides {
		if k.MemberID == memberID {
			out[k] = v
		}
	}
	return out, nil
}

func (r *reportStore) MemberByID(_ context.Context, id int64) (*queries.MemberView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.st.members[id]
	if !ok {
		return nil, notFound("member not found")
	}
	return &queries.MemberView{ID: m.ID, DisplayName: m.DisplayName, Email: m.Email, Balance: m.Balance}, nil
}

func (r *reportStore) ListMembers(_ context.Context) ([]queries.MemberView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]queries.MemberView, 0, len(r.s.st.members))
	for _, m := range r.s.st.members {
		out = append(out, queries.MemberView{ID: m.ID, DisplayName: m.DisplayName, Email: m.Email, Balance: m.Balance})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (r *reportStore) AuditLines(_ context.Context, limit int) ([]queries.AuditLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]queries.AuditLine, 0, len(r.s.st.audit))
	for i := len(r.s.st.audit) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.s.st.audit[i]
		out = append(out, queries.AuditLine{
			ID:            e.ID,
			LoggedAt:      e.LoggedAt,
			RunID:         e.RunID,
			ReservationID: e.ReservationID,
			MemberID:      e.MemberID,
			SlotDate:      e.SlotDate,
			Charge:        e.Charge,
			OldBalance:    e.OldBalance,
			NewBalance:    e.NewBalance,
			Line:          e.Line,
		})
	}
	return out, nil
}

type resourceStore struct{ s *Store }

func (r *resourceStore) ListResources(_ context.Context) ([]queries.ResourceView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]queries.ResourceView, 0, len(r.s.st.resources))
	for _, res := range r.s.st.resources {
		out = append(out, queries.ResourceView{
			ID:           res.ID(),
			Name:         res.Name(),
			StandardRate: res.StandardRate(),
			CreatedAt:    res.CreatedAt(),
			UpdatedAt:    res.UpdatedAt(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *resourceStore) ListOverrides(_ context.Context) ([]queries.OverrideView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]queries.OverrideView, 0, len(r.s.st.overrides))
	for k, rate := range r.s.st.overrides {
		var kiln string
		if res, ok := r.s.st.resources[k.ResourceID]; ok {
			kiln = res.Name()
		}
		out = append(out, queries.OverrideView{
			MemberID:     k.MemberID,
			MemberName:   r.s.memberName(k.MemberID),
			ResourceID:   k.ResourceID,
			ResourceName: kiln,
			Rate:         rate,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MemberName != out[j].MemberName {
			return out[i].MemberName < out[j].MemberName
		}
		return out[i].ResourceName < out[j].ResourceName
	})
	return out, nil
}

func (st *state) recordedCharge(reservationID, memberID int64, pct decimal.Decimal) *decimal.Decimal {
	for _, a := range st.audit {
		if a.ReservationID == reservationID && a.MemberID == memberID && a.Percentage.Equal(pct) {
			c := a.Charge
			return &c
		}
	}
	return nil
}
