package tariff

import (
	"context"

	domtariff "kilnbook/internal/domain/tariff"
	"kilnbook/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// OverrideLookup is satisfied by shared.CommandReads inside or outside a transaction.
type OverrideLookup interface {
	OverrideRate(ctx context.Context, memberID, resourceID int64) (*decimal.Decimal, error)
}

// Resolver picks the rate a member pays for a kiln.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the member's override for the kiln when set, else standardRate.
// It never writes.
func (r *Resolver) Resolve(ctx context.Context, lookup OverrideLookup, memberID, resourceID int64, standardRate decimal.Decimal) (decimal.Decimal, error) {
	override, err := lookup.OverrideRate(ctx, memberID, resourceID)
	if err != nil {
		return decimal.Zero, errs.Wrapf(err, "resolve rate for member %d kiln %d", memberID, resourceID)
	}
	return domtariff.ResolveRate(override, standardRate), nil
}
