package interfaces

import (
	"context"

	market "main/internal/domain/entity/market"
)

// QuoteProvider answers swap quotes for one venue. A provider that cannot
// produce a quote returns an error; callers treat any error as "no quote
// available" rather than a failure of the engine.
type QuoteProvider interface {
	Venue() market.Venue
	// Source identifies the upstream the quotes come from, e.g. an
	// aggregator name.
	Source() string
	Quote(ctx context.Context, pair market.TradingPair, inputAmount float64) (*market.Quote, error)
}
