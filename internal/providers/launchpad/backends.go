// internal/providers/launchpad/backends.go
package launchpad

// BondingLauncher wraps the bonding-curve SDK backend. Charges a flat
// fee and needs the custodial wallet funded before launch.
type BondingLauncher struct {
	httpLauncher
	flatFee float64
}

func NewBondingLauncher(baseURL, apiKey string, flatFee float64) *BondingLauncher {
	return &BondingLauncher{
		httpLauncher: newHTTPLauncher("bonding", baseURL, apiKey),
		flatFee:      flatFee,
	}
}

func (l *BondingLauncher) Fee(liquidity, initialBuy float64) float64 {
	return l.flatFee
}

func (l *BondingLauncher) RequiresCustodialFunding() bool {
	return true
}

// AMMLauncher wraps the AMM / liquidity-pool backend. Charges a
// percentage of the provided liquidity and needs custodial funding.
type AMMLauncher struct {
	httpLauncher
	feePercent float64
}

func NewAMMLauncher(baseURL, apiKey string, feePercent float64) *AMMLauncher {
	return &AMMLauncher{
		httpLauncher: newHTTPLauncher("amm", baseURL, apiKey),
		feePercent:   feePercent,
	}
}

func (l *AMMLauncher) Fee(liquidity, initialBuy float64) float64 {
	return liquidity * l.feePercent / 100
}

func (l *AMMLauncher) RequiresCustodialFunding() bool {
	return true
}

// InstantLauncher wraps the pump-style instant-liquidity backend.
// Charges a percentage of the initial buy; no custodial funding step.
type InstantLauncher struct {
	httpLauncher
	feePercent float64
}

func NewInstantLauncher(baseURL, apiKey string, feePercent float64) *InstantLauncher {
	return &InstantLauncher{
		httpLauncher: newHTTPLauncher("instant", baseURL, apiKey),
		feePercent:   feePercent,
	}
}

func (l *InstantLauncher) Fee(liquidity, initialBuy float64) float64 {
	return initialBuy * l.feePercent / 100
}

func (l *InstantLauncher) RequiresCustodialFunding() bool {
	return false
}
