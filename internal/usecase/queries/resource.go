package queries

import (
	"context"

	"kilnbook/internal/domain/member"
	"kilnbook/internal/pkg/errs"
)

//go:generate mockgen -source=resource.go -destination=../../mock/queries/resource_mock.go -package=queriesmock

type ResourceReadStore interface {
	ListResources(ctx context.Context) ([]ResourceView, error)
	ListOverrides(ctx context.Context) ([]OverrideView, error)
}

type ResourceQueries interface {
	List(ctx context.Context) ([]ResourceView, error)
	ListOverrides(ctx context.Context, actor member.ActorContext) ([]OverrideView, error)
}

type resourceQueriesImpl struct {
	store ResourceReadStore
}

func NewResourceQueries(store ResourceReadStore) ResourceQueries {
	return &resourceQueriesImpl{store: store}
}

func (q *resourceQueriesImpl) List(ctx context.Context) ([]ResourceView, error) {
	rows, err := q.store.ListResources(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rows, nil
}

func (q *resourceQueriesImpl) ListOverrides(ctx context.Context, actor member.ActorContext) ([]OverrideView, error) {
	if !actor.CanOverride() {
		return nil, errs.ErrCapabilityRequired
	}
	rows, err := q.store.ListOverrides(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rows, nil
}
