package repository

import (
	"context"

	"kilnbook/internal/domain/resource"
	"kilnbook/internal/infra"
	"kilnbook/internal/infra/converter"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"
)

const (
	insertResource = `
INSERT INTO resources (name, standard_rate, created_at, updated_at)
VALUES ($1, $2, $3, $3)
RETURNING id`

	updateResourceRate = `UPDATE resources SET standard_rate = $2, updated_at = $3 WHERE id = $1`

	selectResourceByID = `SELECT id, name, standard_rate, created_at, updated_at FROM resources WHERE id = $1`
)

type ResourceRepository struct{}

func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{}
}

func (r *ResourceRepository) Create(ctx context.Context, tx db.DBTX, res *resource.Resource) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, insertResource,
		res.Name(),
		pgconv.DecimalToNumeric(res.StandardRate()),
		pgconv.TimeToPgtype(res.CreatedAt()),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to create kiln", err)
	}
	return id, nil
}

func (r *ResourceRepository) UpdateRate(ctx context.Context, tx db.DBTX, res *resource.Resource) error {
	tag, err := tx.Exec(ctx, updateResourceRate,
		res.ID(),
		pgconv.DecimalToNumeric(res.StandardRate()),
		pgconv.TimeToPgtype(res.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update kiln rate", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("kiln not found", nil, infra.KindNotFound)
	}
	return nil
}

func FindResourceByID(ctx context.Context, q db.DBTX, id int64) (*resource.Resource, error) {
	var row converter.ResourceRow
	err := q.QueryRow(ctx, selectResourceByID, id).
		Scan(&row.ID, &row.Name, &row.StandardRate, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("kiln not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find kiln", err)
	}

	res, err := converter.ResourceToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert kiln", err)
	}
	return res, nil
}
