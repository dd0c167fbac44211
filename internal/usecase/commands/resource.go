package commands

import (
	"context"
	"log/slog"

	"kilnbook/internal/domain/member"
	"kilnbook/internal/domain/resource"
	"kilnbook/internal/infra"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/queries"
	"kilnbook/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=resource.go -destination=../../mock/commands/resource_mock.go -package=commandsmock

type ResourceCommands interface {
	Create(ctx context.Context, actor member.ActorContext, name string, standardRate decimal.Decimal) (*queries.ResourceView, error)
	ChangeRate(ctx context.Context, actor member.ActorContext, resourceID int64, standardRate decimal.Decimal) (*queries.ResourceView, error)
}

type resourceCommandsImpl struct {
	uow shared.UnitOfWork
	tk  *shared.Timekeeper
}

func NewResourceCommands(uow shared.UnitOfWork, tk *shared.Timekeeper) ResourceCommands {
	return &resourceCommandsImpl{uow: uow, tk: tk}
}

func (c *resourceCommandsImpl) Create(ctx context.Context, actor member.ActorContext, name string, standardRate decimal.Decimal) (*queries.ResourceView, error) {
	if !actor.CanOverride() {
		return nil, errs.ErrCapabilityRequired
	}

	res, err := resource.NewResource(name, standardRate, c.tk.Now())
	if err != nil {
		return nil, errs.NewValidationError("kiln", err)
	}

	var id int64
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var txErr error
		id, txErr = tx.Resources().Create(ctx, tx.DB(), res)
		return txErr
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.ErrResourceNameTaken
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slog.Info("kiln created", "resource_id", id, "name", res.Name(), "actor", actor.UserID())
	return toResourceView(resource.ReconstructResource(id, res.Name(), res.StandardRate(), res.CreatedAt(), res.UpdatedAt())), nil
}

// ChangeRate applies to every settlement that runs afterwards, including
// firings booked before the change.
func (c *resourceCommandsImpl) ChangeRate(ctx context.Context, actor member.ActorContext, resourceID int64, standardRate decimal.Decimal) (*queries.ResourceView, error) {
	if !actor.CanOverride() {
		return nil, errs.ErrCapabilityRequired
	}
	if err := resource.ValidateRate(standardRate); err != nil {
		return nil, errs.NewValidationError("standard_rate", err)
	}

	var updated *resource.Resource
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reads().ResourceByID(ctx, resourceID)
		if err != nil {
			return err
		}
		if err := res.ChangeRate(standardRate, c.tk.Now()); err != nil {
			return errs.NewValidationError("standard_rate", err)
		}
		if err := tx.Resources().UpdateRate(ctx, tx.DB(), res); err != nil {
			return err
		}
		updated = res
		return nil
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, errs.ErrResourceNotFound
		case errs.Is(err, errs.ErrDomainValidation):
			return nil, err
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slog.Info("kiln rate changed", "resource_id", resourceID, "rate", standardRate.StringFixed(2), "actor", actor.UserID())
	return toResourceView(updated), nil
}

func toResourceView(r *resource.Resource) *queries.ResourceView {
	return &queries.ResourceView{
		ID:           r.ID(),
		Name:         r.Name(),
		StandardRate: r.StandardRate(),
		CreatedAt:    r.CreatedAt(),
		UpdatedAt:    r.UpdatedAt(),
	}
}
