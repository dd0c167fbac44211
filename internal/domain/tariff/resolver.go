package tariff

import (
	"github.com/shopspring/decimal"
)

// Key addresses one override: a member's rate for a kiln.
type Key struct {
	MemberID   int64
	ResourceID int64
}

// Overrides is a snapshot of configured per-member rates.
type Overrides map[Key]decimal.Decimal

// Resolve returns the override rate for (memberID, resourceID) when one is
// configured, otherwise standardRate. It has no side effects.
func (o Overrides) Resolve(memberID, resourceID int64, standardRate decimal.Decimal) decimal.Decimal {
	if rate, ok := o[Key{MemberID: memberID, ResourceID: resourceID}]; ok {
		return rate
	}
	return standardRate
}

// ResolveRate is Resolve for a single looked-up override.
func ResolveRate(override *decimal.Decimal, standardRate decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return standardRate
}
