//go:build unit

package tariff_test

import (
	"testing"

	"kilnbook/internal/domain/tariff"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOverridesResolve(t *testing.T) {
	standard := decimal.RequireFromString("10.00")
	overrides := tariff.Overrides{
		{MemberID: 2, ResourceID: 1}: decimal.RequireFromString("7.50"),
		{MemberID: 3, ResourceID: 1}: decimal.Zero,
	}

	assert.True(t, decimal.RequireFromString("7.50").Equal(overrides.Resolve(2, 1, standard)))
	assert.True(t, decimal.Zero.Equal(overrides.Resolve(3, 1, standard)), "a zero override still wins")
	assert.True(t, standard.Equal(overrides.Resolve(1, 1, standard)), "no override")
	assert.True(t, standard.Equal(overrides.Resolve(2, 9, standard)), "override is per kiln")
	assert.True(t, standard.Equal(tariff.Overrides(nil).Resolve(2, 1, standard)))
}

func TestResolveRate(t *testing.T) {
	standard := decimal.RequireFromString("10.00")
	override := decimal.RequireFromString("7.50")

	assert.True(t, override.Equal(tariff.ResolveRate(&override, standard)))
	assert.True(t, standard.Equal(tariff.ResolveRate(nil, standard)))
}
