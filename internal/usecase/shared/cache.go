package shared

import (
	"context"
	"fmt"
	"time"
)

// MonthKey addresses the bookings of one kiln in one month.
type MonthKey struct {
	ResourceID int64
	Year       int
	Month      time.Month
}

func MonthKeyOf(resourceID int64, date time.Time) MonthKey {
	return MonthKey{ResourceID: resourceID, Year: date.Year(), Month: date.Month()}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%d:%04d-%02d", k.ResourceID, k.Year, int(k.Month))
}

// MonthCache caches actor-independent booking rows. Implementations must
// treat every failure as a miss.
type MonthCache interface {
	Load(ctx context.Context, key MonthKey, dst any) bool
	Store(ctx context.Context, key MonthKey, v any)
	Invalidate(ctx context.Context, key MonthKey)
}

type NoopMonthCache struct{}

func NewNoopMonthCache() *NoopMonthCache { return &NoopMonthCache{} }

func (NoopMonthCache) Load(context.Context, MonthKey, any) bool { return false }
func (NoopMonthCache) Store(context.Context, MonthKey, any)     {}
func (NoopMonthCache) Invalidate(context.Context, MonthKey)     {}
