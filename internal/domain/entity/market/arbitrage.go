package market

import (
	"math"
	"sort"
)

const (
	// MinSpreadPercent is the absolute spread below which a price gap is not
	// worth surfacing.
	MinSpreadPercent = 0.5
	// FeeEstimatePercent approximates round-trip swap and bridge fees.
	FeeEstimatePercent = 0.3
)

// SpreadSource estimates the cross-venue price spread, in percent, for a
// matched pair. The production source samples the simulated venue prices;
// tests supply fixed values.
type SpreadSource func(ticker string, base, solana TradingPair) float64

// Opportunity is a detected cross-venue price gap net of estimated fees.
// Opportunities are derived on demand and never persisted.
type Opportunity struct {
	Ticker           string      `json:"ticker"`
	BasePair         TradingPair `json:"base_pair"`
	SolanaPair       TradingPair `json:"solana_pair"`
	SpreadPercent    float64     `json:"spread_percent"`
	NetProfitPercent float64     `json:"net_profit_percent"`
}

// DetectOpportunities matches active pairs across venues by ticker and keeps
// the gaps whose absolute spread clears MinSpreadPercent. A ticker qualifies
// only when it has exactly one active listing on each venue; single-venue
// tickers and duplicated listings are skipped. Results are ordered by
// absolute spread, descending; ties keep the ticker enumeration order.
func DetectOpportunities(pairs []TradingPair, spread SpreadSource) []Opportunity {
	grouped := make(map[string][]TradingPair)
	var order []string
	for _, p := range pairs {
		if !p.IsActive {
			continue
		}
		if _, seen := grouped[p.Ticker]; !seen {
			order = append(order, p.Ticker)
		}
		grouped[p.Ticker] = append(grouped[p.Ticker], p)
	}

	var opportunities []Opportunity
	for _, ticker := range order {
		base, solana, ok := matchVenues(grouped[ticker])
		if !ok {
			continue
		}
		pct := spread(ticker, base, solana)
		if math.Abs(pct) <= MinSpreadPercent {
			continue
		}
		opportunities = append(opportunities, Opportunity{
			Ticker:           ticker,
			BasePair:         base,
			SolanaPair:       solana,
			SpreadPercent:    pct,
			NetProfitPercent: math.Abs(pct) - FeeEstimatePercent,
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return math.Abs(opportunities[i].SpreadPercent) > math.Abs(opportunities[j].SpreadPercent)
	})
	return opportunities
}

func matchVenues(pairs []TradingPair) (base, solana TradingPair, ok bool) {
	var baseCount, solanaCount int
	for _, p := range pairs {
		switch p.Venue {
		case VenueBase:
			base = p
			baseCount++
		case VenueSolana:
			solana = p
			solanaCount++
		}
	}
	return base, solana, baseCount == 1 && solanaCount == 1
}
