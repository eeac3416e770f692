package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(ticker string, venue Venue, active bool) TradingPair {
	return TradingPair{
		Ticker:      ticker,
		Venue:       venue,
		ContractRef: string(venue) + ":" + ticker,
		IsActive:    active,
	}
}

func fixedSpreads(spreads map[string]float64) SpreadSource {
	return func(ticker string, _, _ TradingPair) float64 {
		return spreads[ticker]
	}
}

func TestDetectOpportunities_MatchedPair(t *testing.T) {
	pairs := []TradingPair{
		pair("GLD", VenueBase, true),
		pair("GLD", VenueSolana, true),
	}

	opps := DetectOpportunities(pairs, fixedSpreads(map[string]float64{"GLD": 1.2}))

	require.Len(t, opps, 1)
	assert.Equal(t, "GLD", opps[0].Ticker)
	assert.Equal(t, VenueBase, opps[0].BasePair.Venue)
	assert.Equal(t, VenueSolana, opps[0].SolanaPair.Venue)
	assert.InDelta(t, 1.2, opps[0].SpreadPercent, 1e-9)
	assert.InDelta(t, 0.9, opps[0].NetProfitPercent, 1e-9)
}

func TestDetectOpportunities_SingleVenueExcluded(t *testing.T) {
	pairs := []TradingPair{
		pair("OIL", VenueBase, true),
	}

	opps := DetectOpportunities(pairs, fixedSpreads(map[string]float64{"OIL": 2.0}))
	assert.Empty(t, opps)
}

func TestDetectOpportunities_BelowThresholdExcluded(t *testing.T) {
	pairs := []TradingPair{
		pair("COA", VenueBase, true),
		pair("COA", VenueSolana, true),
	}

	opps := DetectOpportunities(pairs, fixedSpreads(map[string]float64{"COA": 0.4}))
	assert.Empty(t, opps)

	opps = DetectOpportunities(pairs, fixedSpreads(map[string]float64{"COA": -0.5}))
	assert.Empty(t, opps)
}

func TestDetectOpportunities_NegativeSpreadUsesAbsoluteValue(t *testing.T) {
	pairs := []TradingPair{
		pair("SLV", VenueBase, true),
		pair("SLV", VenueSolana, true),
	}

	opps := DetectOpportunities(pairs, fixedSpreads(map[string]float64{"SLV": -1.8}))

	require.Len(t, opps, 1)
	assert.InDelta(t, -1.8, opps[0].SpreadPercent, 1e-9)
	assert.InDelta(t, 1.5, opps[0].NetProfitPercent, 1e-9)
}

func TestDetectOpportunities_SortedByAbsoluteSpread(t *testing.T) {
	pairs := []TradingPair{
		pair("GLD", VenueBase, true),
		pair("GLD", VenueSolana, true),
		pair("OIL", VenueBase, true),
		pair("OIL", VenueSolana, true),
		pair("COA", VenueBase, true),
		pair("COA", VenueSolana, true),
	}
	spreads := map[string]float64{"GLD": 0.8, "OIL": -2.4, "COA": 1.5}

	opps := DetectOpportunities(pairs, fixedSpreads(spreads))

	require.Len(t, opps, 3)
	assert.Equal(t, "OIL", opps[0].Ticker)
	assert.Equal(t, "COA", opps[1].Ticker)
	assert.Equal(t, "GLD", opps[2].Ticker)
}

func TestDetectOpportunities_InactiveAndDuplicateListingsSkipped(t *testing.T) {
	pairs := []TradingPair{
		pair("GLD", VenueBase, true),
		pair("GLD", VenueSolana, false),

		// Duplicated base listing makes the match ambiguous.
		pair("OIL", VenueBase, true),
		pair("OIL", VenueBase, true),
		pair("OIL", VenueSolana, true),
	}

	opps := DetectOpportunities(pairs, fixedSpreads(map[string]float64{"GLD": 2.0, "OIL": 2.0}))
	assert.Empty(t, opps)
}
