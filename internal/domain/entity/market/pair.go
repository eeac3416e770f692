package market

import (
	"fmt"
	"time"
)

// Venue identifies one of the two trading environments hosting tokenized
// commodities.
type Venue string

const (
	VenueBase   Venue = "base"
	VenueSolana Venue = "solana"
)

func (v Venue) String() string {
	return string(v)
}

func (v Venue) IsValid() bool {
	switch v {
	case VenueBase, VenueSolana:
		return true
	default:
		return false
	}
}

func NewVenue(s string) (Venue, error) {
	v := Venue(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid venue: %s", s)
	}
	return v, nil
}

// TradingPair is one tokenized commodity listing on a single venue. The same
// ticker listed on both venues forms a matched cross-venue pair.
type TradingPair struct {
	Ticker         string  `json:"ticker"`
	Name           string  `json:"name"`
	Venue          Venue   `json:"venue"`
	ContractRef    string  `json:"contract_ref"`
	LiquidityUSD   float64 `json:"liquidity_usd"`
	DailyVolumeUSD float64 `json:"daily_volume_usd"`
	IsActive       bool    `json:"is_active"`
}

// Quote is the outcome of a venue quote request for a given input amount.
type Quote struct {
	InputAmount        float64  `json:"input_amount"`
	OutputAmount       float64  `json:"output_amount"`
	PriceImpactPercent float64  `json:"price_impact_percent"`
	FeeAmount          float64  `json:"fee_amount"`
	Route              []string `json:"route"`
}

// SpotPrice is a single venue price observation for a token contract.
type SpotPrice struct {
	ContractRef string    `json:"contract_ref"`
	Venue       Venue     `json:"venue"`
	Price       float64   `json:"price"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
}
