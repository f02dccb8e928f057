// internal/services/token_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaforge/solaforge-backend/internal/config"
	"github.com/solaforge/solaforge-backend/internal/models"
	"github.com/solaforge/solaforge-backend/internal/providers/launchpad"
)

func testLaunchConfig() *config.Config {
	return &config.Config{
		Chain: config.ChainConfig{ConfirmInterval: 0, ConfirmAttempts: 3},
		Launchpad: config.LaunchpadConfig{
			BondingFlatFee:    0.25,
			AMMFeePercent:     1.0,
			InstantFeePercent: 2.0,
			PollInterval:      0,
			PollAttempts:      5,
		},
	}
}

func testLaunchers(cfg *config.Config) []launchpad.Launcher {
	return []launchpad.Launcher{
		launchpad.NewBondingLauncher("http://bonding.test", "key", cfg.Launchpad.BondingFlatFee),
		launchpad.NewAMMLauncher("http://amm.test", "key", cfg.Launchpad.AMMFeePercent),
		launchpad.NewInstantLauncher("http://instant.test", "key", cfg.Launchpad.InstantFeePercent),
	}
}

func TestQuoteLaunchFeePerBackend(t *testing.T) {
	cfg := testLaunchConfig()
	svc := NewTokenService(cfg, nil, &fakeChain{}, testLaunchers(cfg), quietLogger())

	// Bonding charges a flat fee regardless of amounts.
	fee, err := svc.QuoteLaunchFee(models.LauncherBackendBonding, 500, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.25, fee)

	// AMM charges a percentage of the liquidity.
	fee, err = svc.QuoteLaunchFee(models.LauncherBackendAMM, 500, 100)
	require.NoError(t, err)
	assert.Equal(t, 5.0, fee)

	// Instant charges a percentage of the initial buy.
	fee, err = svc.QuoteLaunchFee(models.LauncherBackendInstant, 500, 100)
	require.NoError(t, err)
	assert.Equal(t, 2.0, fee)
}

func TestQuoteLaunchFeeUnknownBackend(t *testing.T) {
	cfg := testLaunchConfig()
	svc := NewTokenService(cfg, nil, &fakeChain{}, testLaunchers(cfg), quietLogger())

	_, err := svc.QuoteLaunchFee("escrow", 1, 1)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestCustodialFundingRequirements(t *testing.T) {
	cfg := testLaunchConfig()
	for _, l := range testLaunchers(cfg) {
		switch l.Name() {
		case "bonding", "amm":
			assert.True(t, l.RequiresCustodialFunding(), l.Name())
		case "instant":
			assert.False(t, l.RequiresCustodialFunding(), l.Name())
		}
	}
}

func TestLaunchRejectsUnknownBackend(t *testing.T) {
	cfg := testLaunchConfig()
	svc := NewTokenService(cfg, nil, &fakeChain{}, testLaunchers(cfg), quietLogger())

	_, err := svc.Launch(context.Background(), &LaunchTokenRequest{
		Wallet:  "wallet-1",
		Backend: "escrow",
		Name:    "Moon",
		Symbol:  "MOON",
	})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestLaunchBondingRequiresFunding(t *testing.T) {
	cfg := testLaunchConfig()
	svc := NewTokenService(cfg, nil, &fakeChain{}, testLaunchers(cfg), quietLogger())

	result, err := svc.Launch(context.Background(), &LaunchTokenRequest{
		Wallet:  "wallet-1",
		Backend: models.LauncherBackendBonding,
		Name:    "Moon",
		Symbol:  "MOON",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentRequired)
	assert.Equal(t, FlowStatePaymentPending, result.State)
}
