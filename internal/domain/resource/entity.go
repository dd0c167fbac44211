package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidResourceName = errors.New("invalid kiln name")
	ErrNegativeRate        = errors.New("rate cannot be negative")
	ErrRatePrecision       = errors.New("rate has more than two decimals")
)

const MaxNameLength = 100

// Resource is a kiln with a standard per-firing rate.
type Resource struct {
	id           int64
	name         string
	standardRate decimal.Decimal
	createdAt    time.Time
	updatedAt    time.Time
}

func NewResource(name string, standardRate decimal.Decimal, now time.Time) (*Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return nil, ErrInvalidResourceName
	}
	if err := ValidateRate(standardRate); err != nil {
		return nil, err
	}
	return &Resource{
		name:         name,
		standardRate: standardRate,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructResource(id int64, name string, standardRate decimal.Decimal, createdAt, updatedAt time.Time) *Resource {
	return &Resource{
		id:           id,
		name:         name,
		standardRate: standardRate,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ValidateRate accepts any non-negative amount with at most cent precision.
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return ErrNegativeRate
	}
	if !rate.Equal(rate.Round(2)) {
		return ErrRatePrecision
	}
	return nil
}

// ChangeRate only affects settlements that run after the change.
func (r *Resource) ChangeRate(rate decimal.Decimal, now time.Time) error {
	if err := ValidateRate(rate); err != nil {
		return err
	}
	r.standardRate = rate
	r.updatedAt = now
	return nil
}

func (r *Resource) ID() int64                     { return r.id }
func (r *Resource) Name() string                  { return r.name }
func (r *Resource) StandardRate() decimal.Decimal { return r.standardRate }
func (r *Resource) CreatedAt() time.Time          { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time          { return r.updatedAt }
