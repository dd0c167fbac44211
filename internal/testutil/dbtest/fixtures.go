//go:build e2e

// Package dbtest seeds and inspects the Postgres schema in e2e tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// DBLike is the minimal interface the fixtures need.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateMember inserts a member with email <name>@example.org.
func CreateMember(t *testing.T, db DBLike, id int64, name, balance string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO members (id, display_name, email, balance) VALUES ($1, $2, $3, $4::numeric)",
		id, name, name+"@example.org", balance)
	require.NoError(t, err)
}

func CreateResource(t *testing.T, db DBLike, name, rate string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		"INSERT INTO resources (name, standard_rate) VALUES ($1, $2::numeric) RETURNING id",
		name, rate).Scan(&id)
	require.NoError(t, err)
	return id
}

func SetOverride(t *testing.T, db DBLike, memberID, resourceID int64, rate string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO tariff_overrides (member_id, resource_id, rate) VALUES ($1, $2, $3::numeric)",
		memberID, resourceID, rate)
	require.NoError(t, err)
}

// Share is one split row; Position is its index.
type Share struct {
	Participant int64
	Percentage  string
}

// CreateReservation inserts an unsettled reservation. Without shares no
// split is recorded.
func CreateReservation(t *testing.T, db DBLike, resourceID int64, date time.Time, ownerID int64, shares ...Share) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := db.QueryRow(ctx,
		"INSERT INTO reservations (resource_id, slot_date, owner_id) VALUES ($1, $2, $3) RETURNING id",
		resourceID, date, ownerID).Scan(&id)
	require.NoError(t, err)

	if len(shares) == 0 {
		return id
	}
	for pos := range 5 {
		s := Share{Percentage: "0"}
		if pos < len(shares) {
			s = shares[pos]
		}
		_, err := db.Exec(ctx,
			"INSERT INTO reservation_split_entries (reservation_id, position, participant_id, percentage) VALUES ($1, $2, $3, $4::numeric)",
			id, pos, s.Participant, s.Percentage)
		require.NoError(t, err)
	}
	return id
}

func MarkSettled(t *testing.T, db DBLike, reservationID int64) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE reservations SET settled = true WHERE id = $1", reservationID)
	require.NoError(t, err)
}

func Balance(t *testing.T, db DBLike, memberID int64) decimal.Decimal {
	t.Helper()

	var s string
	err := db.QueryRow(context.Background(), "SELECT balance::text FROM members WHERE id = $1", memberID).Scan(&s)
	require.NoError(t, err)
	return decimal.RequireFromString(s)
}

func ReservationFlags(t *testing.T, db DBLike, reservationID int64) (notified, settled bool) {
	t.Helper()

	err := db.QueryRow(context.Background(),
		"SELECT notified, settled FROM reservations WHERE id = $1", reservationID).Scan(&notified, &settled)
	require.NoError(t, err)
	return notified, settled
}

func Count(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table except the goose version table.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename <> 'goose_db_version'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
