package repository

import (
	"context"

	"kilnbook/internal/domain/ledger"
	"kilnbook/internal/infra"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"
	"kilnbook/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	lockMemberBalance = `SELECT balance FROM members WHERE id = $1 FOR UPDATE`

	updateMemberBalance = `UPDATE members SET balance = $2, updated_at = now() WHERE id = $1`

	selectMemberByID = `SELECT id, display_name, email, balance FROM members WHERE id = $1`
)

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

// Debit locks the member row, applies ledger.Debit and stores the result.
// The row lock holds until the surrounding transaction ends.
func (r *MemberRepository) Debit(ctx context.Context, tx db.DBTX, memberID int64, amount decimal.Decimal) (before, after decimal.Decimal, err error) {
	var balance pgtype.Numeric
	if err := tx.QueryRow(ctx, lockMemberBalance, memberID).Scan(&balance); err != nil {
		if pgconv.IsNoRows(err) {
			return decimal.Zero, decimal.Zero, infra.WrapRepoErr("member not found", err, infra.KindNotFound)
		}
		return decimal.Zero, decimal.Zero, infra.WrapRepoErr("failed to lock member balance", err)
	}
	if before, err = pgconv.DecimalFromNumeric(balance); err != nil {
		return decimal.Zero, decimal.Zero, infra.WrapRepoErr("failed to convert balance", err)
	}

	after = ledger.Debit(before, amount)
	if _, err := tx.Exec(ctx, updateMemberBalance, memberID, pgconv.DecimalToNumeric(after)); err != nil {
		return decimal.Zero, decimal.Zero, infra.WrapRepoErr("failed to debit member", err)
	}
	return before, after, nil
}

func FindMemberByID(ctx context.Context, q db.DBTX, id int64) (*shared.MemberSnapshot, error) {
	var (
		m       shared.MemberSnapshot
		balance pgtype.Numeric
	)
	if err := q.QueryRow(ctx, selectMemberByID, id).Scan(&m.ID, &m.DisplayName, &m.Email, &balance); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("member not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member", err)
	}

	var err error
	if m.Balance, err = pgconv.DecimalFromNumeric(balance); err != nil {
		return nil, infra.WrapRepoErr("failed to convert balance", err)
	}
	return &m, nil
}
