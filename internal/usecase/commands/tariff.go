package commands

import (
	"context"
	"log/slog"

	"kilnbook/internal/domain/member"
	"kilnbook/internal/domain/resource"
	"kilnbook/internal/infra"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=tariff.go -destination=../../mock/commands/tariff_mock.go -package=commandsmock

type TariffCommands interface {
	SetOverride(ctx context.Context, actor member.ActorContext, memberID, resourceID int64, rate decimal.Decimal) error
	RemoveOverride(ctx context.Context, actor member.ActorContext, memberID, resourceID int64) error
}

type tariffCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewTariffCommands(uow shared.UnitOfWork) TariffCommands {
	return &tariffCommandsImpl{uow: uow}
}

func (c *tariffCommandsImpl) SetOverride(ctx context.Context, actor member.ActorContext, memberID, resourceID int64, rate decimal.Decimal) error {
	if !actor.CanOverride() {
		return errs.ErrCapabilityRequired
	}
	if err := resource.ValidateRate(rate); err != nil {
		return errs.NewValidationError("rate", err)
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().MemberByID(ctx, memberID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrMemberNotFound
			}
			return err
		}
		if _, err := tx.Reads().ResourceByID(ctx, resourceID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrResourceNotFound
			}
			return err
		}
		return tx.Tariffs().Upsert(ctx, tx.DB(), memberID, resourceID, rate)
	})
	if err != nil {
		if errs.Is(err, errs.ErrMemberNotFound) || errs.Is(err, errs.ErrResourceNotFound) {
			return err
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	slog.Info("tariff override set", "member_id", memberID, "resource_id", resourceID, "rate", rate.StringFixed(2), "actor", actor.UserID())
	return nil
}

func (c *tariffCommandsImpl) RemoveOverride(ctx context.Context, actor member.ActorContext, memberID, resourceID int64) error {
	if !actor.CanOverride() {
		return errs.ErrCapabilityRequired
	}

	var removed bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var txErr error
		removed, txErr = tx.Tariffs().Delete(ctx, tx.DB(), memberID, resourceID)
		return txErr
	})
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !removed {
		return errs.ErrOverrideNotFound
	}

	slog.Info("tariff override removed", "member_id", memberID, "resource_id", resourceID, "actor", actor.UserID())
	return nil
}
