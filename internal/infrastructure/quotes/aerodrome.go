package quotes

import (
	"context"
	"errors"
	"fmt"

	market "main/internal/domain/entity/market"
)

var ErrInactivePair = errors.New("pair is not tradeable")

const (
	// Aerodrome-style stable pool parameters used by the simulated AMM.
	aerodromeSlippage   = 0.002
	aerodromeFeeRate    = 0.003
	aerodromeImpactPct  = 0.15
	aerodromeSourceName = "aerodrome"
)

// AerodromeProvider answers swap quotes for Base-listed pairs with a fixed
// pool model instead of an on-chain call.
type AerodromeProvider struct{}

func NewAerodromeProvider() *AerodromeProvider { return &AerodromeProvider{} }

func (p *AerodromeProvider) Venue() market.Venue { return market.VenueBase }

func (p *AerodromeProvider) Source() string { return aerodromeSourceName }

func (p *AerodromeProvider) Quote(_ context.Context, pair market.TradingPair, inputAmount float64) (*market.Quote, error) {
	if !pair.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrInactivePair, pair.Ticker)
	}
	if inputAmount <= 0 {
		return nil, errors.New("input amount must be positive")
	}
	return &market.Quote{
		InputAmount:        inputAmount,
		OutputAmount:       inputAmount * (1 - aerodromeSlippage),
		PriceImpactPercent: aerodromeImpactPct,
		FeeAmount:          inputAmount * aerodromeFeeRate,
		Route:              []string{"USDC", pair.Ticker},
	}, nil
}
