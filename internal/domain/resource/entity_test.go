//go:build unit

package resource_test

import (
	"strings"
	"testing"
	"time"

	"kilnbook/internal/domain/resource"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func TestNewResource(t *testing.T) {
	tests := []struct {
		name  string
		kiln  string
		rate  string
		errIs error
	}{
		{name: "valid", kiln: "Nabertherm", rate: "10.00"},
		{name: "free kiln", kiln: "Oefenoven", rate: "0"},
		{name: "blank name", kiln: "   ", rate: "10.00", errIs: resource.ErrInvalidResourceName},
		{name: "name too long", kiln: strings.Repeat("k", resource.MaxNameLength+1), rate: "10.00", errIs: resource.ErrInvalidResourceName},
		{name: "negative rate", kiln: "Nabertherm", rate: "-1", errIs: resource.ErrNegativeRate},
		{name: "sub-cent rate", kiln: "Nabertherm", rate: "10.005", errIs: resource.ErrRatePrecision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resource.NewResource(tt.kiln, decimal.RequireFromString(tt.rate), now)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.kiln), r.Name())
			assert.True(t, decimal.RequireFromString(tt.rate).Equal(r.StandardRate()))
		})
	}
}

func TestChangeRate(t *testing.T) {
	r := resource.ReconstructResource(1, "Nabertherm", decimal.RequireFromString("10.00"), now, now)
	later := now.Add(time.Hour)

	require.NoError(t, r.ChangeRate(decimal.RequireFromString("12.50"), later))
	assert.True(t, decimal.RequireFromString("12.50").Equal(r.StandardRate()))
	assert.Equal(t, later, r.UpdatedAt())

	assert.ErrorIs(t, r.ChangeRate(decimal.RequireFromString("-0.01"), later), resource.ErrNegativeRate)
	assert.True(t, decimal.RequireFromString("12.50").Equal(r.StandardRate()), "rejected change leaves the rate alone")
}
