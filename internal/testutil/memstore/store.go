//go:build unit

// Package memstore is an in-memory stand-in for the Postgres unit of work
// and read stores. A transaction holds the store lock for its whole
// duration and restores a snapshot when fn fails.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"kilnbook/internal/domain/ledger"
	"kilnbook/internal/domain/reservation"
	"kilnbook/internal/domain/resource"
	domtariff "kilnbook/internal/domain/tariff"
	"kilnbook/internal/infra"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	errNoRow      = errs.New("no rows in result set")
	errUniqueSlot = errs.New("duplicate key value violates unique constraint \"reservations_resource_date_key\"")
	errFrozen     = errs.New("reservation is settled")
)

// Job is a queued notification with its delivery state.
type Job struct {
	shared.NotificationJob
	Status    string
	LastError *string
}

type state struct {
	nextReservationID int64
	nextResourceID    int64
	reservations      map[int64]*reservation.Reservation
	members           map[int64]shared.MemberSnapshot
	resources         map[int64]*resource.Resource
	overrides         domtariff.Overrides
	audit             []shared.AuditEntry
	jobs              []Job
}

func (s *state) clone() *state {
	c := &state{
		nextReservationID: s.nextReservationID,
		nextResourceID:    s.nextResourceID,
		reservations:      make(map[int64]*reservation.Reservation, len(s.reservations)),
		members:           make(map[int64]shared.MemberSnapshot, len(s.members)),
		resources:         make(map[int64]*resource.Resource, len(s.resources)),
		overrides:         make(domtariff.Overrides, len(s.overrides)),
		audit:             append([]shared.AuditEntry(nil), s.audit...),
		jobs:              append([]Job(nil), s.jobs...),
	}
	for id, r := range s.reservations {
		c.reservations[id] = cloneReservation(r, id)
	}
	for id, m := range s.members {
		c.members[id] = m
	}
	for id, r := range s.resources {
		c.resources[id] = resource.ReconstructResource(r.ID(), r.Name(), r.StandardRate(), r.CreatedAt(), r.UpdatedAt())
	}
	for k, v := range s.overrides {
		c.overrides[k] = v
	}
	return c
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: &state{
		nextReservationID: 1,
		nextResourceID:    1,
		reservations:      map[int64]*reservation.Reservation{},
		members:           map[int64]shared.MemberSnapshot{},
		resources:         map[int64]*resource.Resource{},
		overrides:         domtariff.Overrides{},
	}}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, &memTx{st: s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &lockedReads{s: s}
}

func cloneReservation(r *reservation.Reservation, id int64) *reservation.Reservation {
	var split *reservation.Split
	if sp, ok := r.RecordedSplit(); ok {
		split = &sp
	}
	return reservation.ReconstructReservation(id, r.ResourceID(), r.Date(), r.OwnerID(), r.Details(), split,
		r.Notified(), r.Settled(), r.CreatedAt(), r.UpdatedAt())
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, errNoRow, infra.KindNotFound)
}

// ---------------------------------------------------------------------------
// Seeding and inspection
// ---------------------------------------------------------------------------

func (s *Store) AddMember(id int64, name string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.members[id] = shared.MemberSnapshot{ID: id, DisplayName: name, Email: name + "@example.org", Balance: balance}
}

func (s *Store) AddResource(name string, rate decimal.Decimal) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.st.nextResourceID
	s.st.nextResourceID++
	s.st.resources[id] = resource.ReconstructResource(id, name, rate, time.Time{}, time.Time{})
	return id
}

func (s *Store) SetOverride(memberID, resourceID int64, rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.overrides[domtariff.Key{MemberID: memberID, ResourceID: resourceID}] = rate
}

// PutReservation stores r as is, bypassing every check, and returns its id.
func (s *Store) PutReservation(r *reservation.Reservation) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.st.nextReservationID
	s.st.nextReservationID++
	s.st.reservations[id] = cloneReservation(r, id)
	return id
}

func (s *Store) Reservation(id int64) *reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.reservations[id]
	if !ok {
		return nil
	}
	return cloneReservation(r, id)
}

func (s *Store) ReservationAt(resourceID int64, date time.Time) *reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.st.byKey(resourceID, date); r != nil {
		return cloneReservation(r, r.ID())
	}
	return nil
}

func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.reservations)
}

func (s *Store) Balance(memberID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.members[memberID].Balance
}

func (s *Store) Override(memberID, resourceID int64) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rate, ok := s.st.overrides[domtariff.Key{MemberID: memberID, ResourceID: resourceID}]
	return rate, ok
}

func (s *Store) Resource(id int64) *resource.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.resources[id]
}

func (s *Store) AuditEntries() []shared.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shared.AuditEntry(nil), s.st.audit...)
}

func (s *Store) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.st.jobs...)
}

func (s *Store) JobsOfKind(kind string) []Job {
	var out []Job
	for _, j := range s.Jobs() {
		if j.Kind == kind {
			out = append(out, j)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// State lookups, callers hold the lock
// ---------------------------------------------------------------------------

func (st *state) byKey(resourceID int64, date time.Time) *reservation.Reservation {
	for _, r := range st.reservations {
		if r.ResourceID() == resourceID && r.Date().Equal(date) {
			return r
		}
	}
	return nil
}

func (st *state) sortedReservations() []*reservation.Reservation {
	out := make([]*reservation.Reservation, 0, len(st.reservations))
	for _, r := range st.reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date().Equal(out[j].Date()) {
			return out[i].Date().Before(out[j].Date())
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

// ---------------------------------------------------------------------------
// Transaction
// ---------------------------------------------------------------------------

type memTx struct {
	st *state
}

func (t *memTx) Reservations() shared.ReservationRepository   { return &reservationRepo{st: t.st} }
func (t *memTx) Members() shared.MemberRepository             { return &memberRepo{st: t.st} }
func (t *memTx) Resources() shared.ResourceRepository         { return &resourceRepo{st: t.st} }
func (t *memTx) Tariffs() shared.TariffRepository             { return &tariffRepo{st: t.st} }
func (t *memTx) Audit() shared.AuditRepository                { return &auditRepo{st: t.st} }
func (t *memTx) Notifications() shared.NotificationRepository { return &notificationRepo{st: t.st} }
func (t *memTx) Reads() shared.CommandReads                   { return &reads{st: t.st} }
func (t *memTx) DB() db.DBTX                                  { return nil }

type reservationRepo struct{ st *state }

func (r *reservationRepo) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) (int64, error) {
	if r.st.byKey(res.ResourceID(), res.Date()) != nil {
		return 0, infra.WrapRepoErr("failed to create reservation", errUniqueSlot, infra.KindDuplicateKey)
	}
	id := r.st.nextReservationID
	r.st.nextReservationID++
	r.st.reservations[id] = cloneReservation(res, id)
	return id, nil
}

func (r *reservationRepo) Update(_ context.Context, _ db.DBTX, res *reservation.Reservation) error {
	cur, ok := r.st.reservations[res.ID()]
	if !ok {
		return notFound("reservation not found")
	}
	if cur.Settled() {
		return infra.WrapRepoErr("failed to update reservation", errFrozen)
	}
	r.st.reservations[res.ID()] = cloneReservation(res, res.ID())
	return nil
}

func (r *reservationRepo) Delete(_ context.Context, _ db.DBTX, id int64) error {
	cur, ok := r.st.reservations[id]
	if !ok {
		return notFound("reservation not found")
	}
	if cur.Settled() {
		return infra.WrapRepoErr("failed to delete reservation", errFrozen)
	}
	delete(r.st.reservations, id)
	return nil
}

func (r *reservationRepo) ClaimSettlement(_ context.Context, _ db.DBTX, id int64) (bool, error) {
	cur, ok := r.st.reservations[id]
	if !ok {
		return false, nil
	}
	if err := cur.MarkSettled(cur.UpdatedAt()); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *reservationRepo) MarkNotified(_ context.Context, _ db.DBTX, id int64) (bool, error) {
	cur, ok := r.st.reservations[id]
	if !ok {
		return false, nil
	}
	if err := cur.MarkNotified(cur.UpdatedAt()); err != nil {
		return false, nil
	}
	return true, nil
}

type memberRepo struct{ st *state }

func (r *memberRepo) Debit(_ context.Context, _ db.DBTX, memberID int64, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	m, ok := r.st.members[memberID]
	if !ok {
		return decimal.Zero, decimal.Zero, notFound("member not found")
	}
	before := m.Balance
	m.Balance = ledger.Debit(before, amount)
	r.st.members[memberID] = m
	return before, m.Balance, nil
}

type resourceRepo struct{ st *state }

func (r *resourceRepo) Create(_ context.Context, _ db.DBTX, res *resource.Resource) (int64, error) {
	for _, existing := range r.st.resources {
		if existing.Name() == res.Name() {
			return 0, infra.WrapRepoErr("failed to create kiln", errs.New("duplicate kiln name"), infra.KindDuplicateKey)
		}
	}
	id := r.st.nextResourceID
	r.st.nextResourceID++
	r.st.resources[id] = resource.ReconstructResource(id, res.Name(), res.StandardRate(), res.CreatedAt(), res.UpdatedAt())
	return id, nil
}

func (r *resourceRepo) UpdateRate(_ context.Context, _ db.DBTX, res *resource.Resource) error {
	if _, ok := r.st.resources[res.ID()]; !ok {
		return notFound("kiln not found")
	}
	r.st.resources[res.ID()] = resource.ReconstructResource(res.ID(), res.Name(), res.StandardRate(), res.CreatedAt(), res.UpdatedAt())
	return nil
}

type tariffRepo struct{ st *state }

func (r *tariffRepo) Upsert(_ context.Context, _ db.DBTX, memberID, resourceID int64, rate decimal.Decimal) error {
	r.st.overrides[domtariff.Key{MemberID: memberID, ResourceID: resourceID}] = rate
	return nil
}

func (r *tariffRepo) Delete(_ context.Context, _ db.DBTX, memberID, resourceID int64) (bool, error) {
	key := domtariff.Key{MemberID: memberID, ResourceID: resourceID}
	if _, ok := r.st.overrides[key]; !ok {
		return false, nil
	}
	delete(r.st.overrides, key)
	return true, nil
}

type auditRepo struct{ st *state }

func (r *auditRepo) Append(_ context.Context, _ db.DBTX, e shared.AuditEntry) error {
	r.st.audit = append(r.st.audit, e)
	return nil
}

type notificationRepo struct{ st *state }

func (r *notificationRepo) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	r.st.jobs = append(r.st.jobs, Job{
		NotificationJob: shared.NotificationJob{ID: uuid.New(), Kind: kind, Topic: topic, Payload: payload, RunAt: runAt},
		Status:          shared.JobStatusQueued,
	})
	return nil
}

func (r *notificationRepo) ClaimQueued(_ context.Context, _ db.DBTX, now time.Time, limit int) ([]shared.NotificationJob, error) {
	var out []shared.NotificationJob
	for _, j := range r.st.jobs {
		if len(out) == limit {
			break
		}
		if j.Status == shared.JobStatusQueued && !j.RunAt.After(now) {
			out = append(out, j.NotificationJob)
		}
	}
	return out, nil
}

func (r *notificationRepo) UpdateJobStatus(_ context.Context, _ db.DBTX, jobID uuid.UUID, status string, lastError *string) error {
	for i := range r.st.jobs {
		if r.st.jobs[i].ID == jobID {
			r.st.jobs[i].Status = status
			r.st.jobs[i].Attempts++
			r.st.jobs[i].LastError = lastError
			return nil
		}
	}
	return notFound("notification job not found")
}

// ---------------------------------------------------------------------------
// Command reads
// ---------------------------------------------------------------------------

type reads struct{ st *state }

func (r *reads) ResourceByID(_ context.Context, id int64) (*resource.Resource, error) {
	res, ok := r.st.resources[id]
	if !ok {
		return nil, notFound("kiln not found")
	}
	return resource.ReconstructResource(res.ID(), res.Name(), res.StandardRate(), res.CreatedAt(), res.UpdatedAt()), nil
}

func (r *reads) ReservationByKey(_ context.Context, resourceID int64, date time.Time, _ bool) (*reservation.Reservation, error) {
	if res := r.st.byKey(resourceID, date); res != nil {
		return cloneReservation(res, res.ID()), nil
	}
	return nil, nil
}

func (r *reads) ReservationByID(_ context.Context, id int64) (*reservation.Reservation, error) {
	res, ok := r.st.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	return cloneReservation(res, id), nil
}

func (r *reads) MemberByID(_ context.Context, id int64) (*shared.MemberSnapshot, error) {
	m, ok := r.st.members[id]
	if !ok {
		return nil, notFound("member not found")
	}
	return &m, nil
}

func (r *reads) OverrideRate(_ context.Context, memberID, resourceID int64) (*decimal.Decimal, error) {
	rate, ok := r.st.overrides[domtariff.Key{MemberID: memberID, ResourceID: resourceID}]
	if !ok {
		return nil, nil
	}
	return &rate, nil
}

func (r *reads) SettlementDue(_ context.Context, today time.Time) ([]int64, error) {
	var ids []int64
	for _, res := range r.st.sortedReservations() {
		if !res.Settled() && reservation.DueForSettlement(res.Date(), today) {
			ids = append(ids, res.ID())
		}
	}
	return ids, nil
}

func (r *reads) ReminderDue(_ context.Context, today time.Time) ([]int64, error) {
	var ids []int64
	for _, res := range r.st.sortedReservations() {
		if !res.Settled() && !res.Notified() && reservation.DueForReminder(res.Date(), today) {
			ids = append(ids, res.ID())
		}
	}
	return ids, nil
}

type lockedReads struct{ s *Store }

func (l *lockedReads) with() (*reads, func()) {
	l.s.mu.Lock()
	return &reads{st: l.s.st}, l.s.mu.Unlock
}

func (l *lockedReads) ResourceByID(ctx context.Context, id int64) (*resource.Resource, error) {
	r, unlock := l.with()
	defer unlock()
	return r.ResourceByID(ctx, id)
}

func (l *lockedReads) ReservationByKey(ctx context.Context, resourceID int64, date time.Time, forUpdate bool) (*reservation.Reservation, error) {
	r, unlock := l.with()
	defer unlock()
	return r.ReservationByKey(ctx, resourceID, date, forUpdate)
}

func (l *lockedReads) ReservationByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	r, unlock := l.with()
	defer unlock()
	return r.ReservationByID(ctx, id)
}

func (l *lockedReads) MemberByID(ctx context.Context, id int64) (*shared.MemberSnapshot, error) {
	r, unlock := l.with()
	defer unlock()
	return r.MemberByID(ctx, id)
}

func (l *lockedReads) OverrideRate(ctx context.Context, memberID, resourceID int64) (*decimal.Decimal, error) {
	r, unlock := l.with()
	defer unlock()
	return r.OverrideRate(ctx, memberID, resourceID)
}

func (l *lockedReads) SettlementDue(ctx context.Context, today time.Time) ([]int64, error) {
	r, unlock := l.with()
	defer unlock()
	return r.SettlementDue(ctx, today)
}

func (l *lockedReads) ReminderDue(ctx context.Context, today time.Time) ([]int64, error) {
	r, unlock := l.with()
	defer unlock()
	return r.ReminderDue(ctx, today)
}
