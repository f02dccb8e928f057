// internal/services/tier_service_test.go
package services

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTierForBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		want    string
	}{
		{"zero balance", 0, "Base"},
		{"just below bronze", 999_999, "Base"},
		{"bronze threshold", 1_000_000, "Bronze"},
		{"between bronze and silver", 3_000_000, "Bronze"},
		{"silver threshold", 5_000_000, "Silver"},
		{"gold threshold", 10_000_000, "Gold"},
		{"far above gold", 500_000_000, "Gold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierForBalance(tt.balance).Name)
		})
	}
}

func TestTierForBalanceMonotonic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("higher balance never yields a lower tier", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return TierForBalance(hi).MinBalance >= TierForBalance(lo).MinBalance
		},
		gen.Float64Range(0, 100_000_000),
		gen.Float64Range(0, 100_000_000),
	))

	properties.TestingRun(t)
}

func TestEffectiveFee(t *testing.T) {
	assert.Equal(t, 0.1, EffectiveFee(0.1, 0, false))
	assert.Equal(t, 0.09, EffectiveFee(0.1, 10, false))
	assert.Equal(t, 0.05, EffectiveFee(0.1, 50, false))
	assert.Equal(t, 0.0, EffectiveFee(0.1, 100, false))

	// Free mint forces zero regardless of discount
	assert.Equal(t, 0.0, EffectiveFee(0.1, 0, true))
	assert.Equal(t, 0.0, EffectiveFee(5, 50, true))
}

func TestEffectiveFeeNeverNegative(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("fee stays within [0, base]", prop.ForAll(
		func(base float64, discount float64, free bool) bool {
			fee := EffectiveFee(base, discount, free)
			return fee >= 0 && fee <= base
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestTiersReturnsCopy(t *testing.T) {
	out := Tiers()
	assert.Len(t, out, 4)

	out[0].DiscountPercent = 99
	assert.Equal(t, 0.0, Tiers()[0].DiscountPercent)
}
