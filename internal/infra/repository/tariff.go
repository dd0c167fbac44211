package repository

import (
	"context"

	"kilnbook/internal/infra"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	upsertTariffOverride = `
INSERT INTO tariff_overrides (member_id, resource_id, rate)
VALUES ($1, $2, $3)
ON CONFLICT (member_id, resource_id) DO UPDATE SET rate = EXCLUDED.rate`

	deleteTariffOverride = `DELETE FROM tariff_overrides WHERE member_id = $1 AND resource_id = $2`

	selectTariffOverride = `SELECT rate FROM tariff_overrides WHERE member_id = $1 AND resource_id = $2`
)

type TariffRepository struct{}

func NewTariffRepository() *TariffRepository {
	return &TariffRepository{}
}

func (r *TariffRepository) Upsert(ctx context.Context, tx db.DBTX, memberID, resourceID int64, rate decimal.Decimal) error {
	if _, err := tx.Exec(ctx, upsertTariffOverride, memberID, resourceID, pgconv.DecimalToNumeric(rate)); err != nil {
		return infra.WrapRepoErr("failed to upsert tariff override", err)
	}
	return nil
}

func (r *TariffRepository) Delete(ctx context.Context, tx db.DBTX, memberID, resourceID int64) (bool, error) {
	tag, err := tx.Exec(ctx, deleteTariffOverride, memberID, resourceID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete tariff override", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindOverrideRate returns nil, nil when the member pays the standard rate.
func FindOverrideRate(ctx context.Context, q db.DBTX, memberID, resourceID int64) (*decimal.Decimal, error) {
	var rate pgtype.Numeric
	if err := q.QueryRow(ctx, selectTariffOverride, memberID, resourceID).Scan(&rate); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find tariff override", err)
	}

	d, err := pgconv.DecimalPtrFromNumeric(rate)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert tariff override", err)
	}
	return d, nil
}
