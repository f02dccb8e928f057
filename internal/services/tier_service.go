// internal/services/tier_service.go
package services

import (
	"context"
	"fmt"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/providers/chainrpc"
)

// UnlimitedGenerations is the sentinel free-quota value: the tier never
// runs out of daily generations.
const UnlimitedGenerations = -1

// Tier is one discount/quota bracket of the platform token.
type Tier struct {
	Name                  string  `json:"name"`
	MinBalance            float64 `json:"min_balance"`
	FreeGenerationsPerDay int     `json:"free_generations_per_day"`
	DiscountPercent       float64 `json:"discount_percent"`
}

// tiers is ordered by ascending MinBalance; lookup takes the highest
// threshold not exceeding the balance.
var tiers = []Tier{
	{Name: "Base", MinBalance: 0, FreeGenerationsPerDay: 1, DiscountPercent: 0},
	{Name: "Bronze", MinBalance: 1_000_000, FreeGenerationsPerDay: 5, DiscountPercent: 10},
	{Name: "Silver", MinBalance: 5_000_000, FreeGenerationsPerDay: 10, DiscountPercent: 25},
	{Name: "Gold", MinBalance: 10_000_000, FreeGenerationsPerDay: UnlimitedGenerations, DiscountPercent: 50},
}

// TierForBalance maps any non-negative balance to exactly one tier.
func TierForBalance(balance float64) Tier {
	result := tiers[0]
	for _, t := range tiers[1:] {
		if balance >= t.MinBalance {
			result = t
		}
	}
	return result
}

// Tiers returns the full tier table for display.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// EffectiveFee applies a tier discount to a base fee. A free-mint waiver
// forces the fee to exactly zero regardless of discount.
func EffectiveFee(base, discountPercent float64, freeMint bool) float64 {
	if freeMint {
		return 0
	}
	return base * (100 - discountPercent) / 100
}

type TierService struct {
	cfg   *config.Config
	chain chainrpc.Client
}

func NewTierService(cfg *config.Config, chain chainrpc.Client) *TierService {
	return &TierService{
		cfg:   cfg,
		chain: chain,
	}
}

// TierForWallet reads the wallet's platform-token balance and resolves
// its tier. An unreachable RPC degrades to the base tier rather than
// blocking the caller.
func (s *TierService) TierForWallet(ctx context.Context, wallet string) (Tier, float64, error) {
	balance, err := s.chain.GetTokenBalance(ctx, wallet, s.cfg.Chain.PlatformTokenMint)
	if err != nil {
		return tiers[0], 0, fmt.Errorf("failed to read token balance: %w", err)
	}
	return TierForBalance(balance), balance, nil
}
