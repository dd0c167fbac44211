package readstore

import (
	"context"

	"kilnbook/internal/infra"
	"kilnbook/internal/infra/db"
	"kilnbook/internal/pkg/pgconv"
	"kilnbook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	selectAllResources = `SELECT id, name, standard_rate, created_at, updated_at FROM resources ORDER BY name`

	selectAllOverrides = `
SELECT t.member_id, m.display_name, t.resource_id, r.name, t.rate
  FROM tariff_overrides t
  JOIN members m ON m.id = t.member_id
  JOIN resources r ON r.id = t.resource_id
 ORDER BY m.display_name, r.name`
)

type ResourceReadStore struct {
	db db.DBTX
}

func NewResourceReadStore(db db.DBTX) *ResourceReadStore {
	return &ResourceReadStore{db: db}
}

func (s *ResourceReadStore) ListResources(ctx context.Context) ([]queries.ResourceView, error) {
	rows, err := s.db.Query(ctx, selectAllResources)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list kilns", err)
	}
	defer rows.Close()

	out := []queries.ResourceView{}
	for rows.Next() {
		var (
			v         queries.ResourceView
			rate      pgtype.Numeric
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&v.ID, &v.Name, &rate, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan kiln", err)
		}
		if v.StandardRate, err = pgconv.DecimalFromNumeric(rate); err != nil {
			return nil, infra.WrapRepoErr("failed to convert kiln rate", err)
		}
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate kilns", err)
	}
	return out, nil
}

func (s *ResourceReadStore) ListOverrides(ctx context.Context) ([]queries.OverrideView, error) {
	rows, err := s.db.Query(ctx, selectAllOverrides)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tariff overrides", err)
	}
	defer rows.Close()

	out := []queries.OverrideView{}
	for rows.Next() {
		var (
			v    queries.OverrideView
			rate pgtype.Numeric
		)
		if err := rows.Scan(&v.MemberID, &v.MemberName, &v.ResourceID, &v.ResourceName, &rate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tariff override", err)
		}
		if v.Rate, err = pgconv.DecimalFromNumeric(rate); err != nil {
			return nil, infra.WrapRepoErr("failed to convert tariff override", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tariff overrides", err)
	}
	return out, nil
}
