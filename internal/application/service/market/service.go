package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"
	"main/internal/engine"
	"main/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

var ErrUnknownVenue = errors.New("no provider for venue")

const (
	// maxSpreadPercent bounds the simulated cross-venue spread.
	maxSpreadPercent = 2.5
	// quoteNotional is the input amount used when enriching pair listings.
	quoteNotional = 1000.0

	minSpotPrice  = 50.0
	spotPriceSpan = 1000.0

	// Rough estimates persisted after a spot price observation.
	liquidityPerPriceUnit = 1000.0
	volumePerPriceUnit    = 100.0
)

// Service reads trading pairs from the ledger store, detects cross-venue
// arbitrage and enriches listings with venue quotes and simulated spot
// prices.
type Service struct {
	repo      interfaces.LedgerRepository
	providers map[domain.Venue]interfaces.QuoteProvider
	rng       engine.Source
	now       func() time.Time
	log       *logrus.Entry
}

func NewService(repo interfaces.LedgerRepository, providers []interfaces.QuoteProvider, rng engine.Source, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	if rng == nil {
		rng = engine.NewLockedSource(engine.NewSource())
	}
	byVenue := make(map[domain.Venue]interfaces.QuoteProvider, len(providers))
	for _, p := range providers {
		byVenue[p.Venue()] = p
	}
	return &Service{
		repo:      repo,
		providers: byVenue,
		rng:       rng,
		now:       time.Now,
		log:       logger.WithField("component", "market_service"),
	}
}

// Opportunities recomputes the cross-venue arbitrage list from the active
// pair table.
func (s *Service) Opportunities(ctx context.Context) ([]domain.Opportunity, error) {
	pairs, err := s.repo.ActiveTradingPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trading pairs: %w", err)
	}
	return domain.DetectOpportunities(pairs, s.randomSpread), nil
}

// randomSpread simulates the observable cross-venue price gap in
// [-maxSpreadPercent, +maxSpreadPercent].
func (s *Service) randomSpread(string, domain.TradingPair, domain.TradingPair) float64 {
	return s.rng.Float64()*2*maxSpreadPercent - maxSpreadPercent
}

// EnrichedPair is a pair listing decorated with live quote metadata for the
// dashboard price table.
type EnrichedPair struct {
	domain.TradingPair
	SpotPriceUSD    float64       `json:"spot_price_usd"`
	PriceChange24h  float64       `json:"price_change_24h"`
	Quote           *domain.Quote `json:"quote,omitempty"`
	BaseTVL         *float64      `json:"base_tvl,omitempty"`
	SolanaVolume24h *float64      `json:"solana_volume_24h,omitempty"`
	LastUpdated     time.Time     `json:"last_updated"`
}

// EnrichedPairs returns every active pair with a simulated spot price and,
// when the venue provider answers, a swap quote. A provider failure leaves
// the quote empty; it never fails the listing.
func (s *Service) EnrichedPairs(ctx context.Context) ([]EnrichedPair, error) {
	pairs, err := s.repo.ActiveTradingPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trading pairs: %w", err)
	}

	now := s.now()
	out := make([]EnrichedPair, 0, len(pairs))
	for _, pair := range pairs {
		enriched := EnrichedPair{
			TradingPair:    pair,
			SpotPriceUSD:   s.randomSpotPrice(),
			PriceChange24h: s.rng.Float64()*10 - 5,
			LastUpdated:    now,
		}
		switch pair.Venue {
		case domain.VenueBase:
			tvl := s.rng.Float64() * 10_000_000
			enriched.BaseTVL = &tvl
		case domain.VenueSolana:
			vol := s.rng.Float64() * 1_000_000
			enriched.SolanaVolume24h = &vol
		}
		if provider, ok := s.providers[pair.Venue]; ok {
			quote, err := provider.Quote(ctx, pair, quoteNotional)
			if err != nil {
				// No quote available; the listing still ships.
				metrics.QuoteFailures.WithLabelValues(string(pair.Venue)).Inc()
				s.log.WithError(err).WithField("ticker", pair.Ticker).Debug("quote unavailable")
			} else {
				enriched.Quote = quote
			}
		}
		out = append(out, enriched)
	}
	return out, nil
}

// SpotPrice observes a simulated venue price for a token contract and
// persists refreshed liquidity and volume estimates derived from it.
func (s *Service) SpotPrice(ctx context.Context, contractRef string, venue domain.Venue) (*domain.SpotPrice, error) {
	provider, ok := s.providers[venue]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVenue, venue)
	}

	price := s.randomSpotPrice()
	observation := &domain.SpotPrice{
		ContractRef: contractRef,
		Venue:       venue,
		Price:       price,
		Source:      provider.Source(),
		Timestamp:   s.now(),
	}

	if err := s.repo.UpdatePairEstimates(ctx, contractRef, price*liquidityPerPriceUnit, price*volumePerPriceUnit); err != nil {
		if errors.Is(err, interfaces.ErrPairNotFound) {
			s.log.WithField("contract", contractRef).Warn("spot price for unlisted contract")
			return observation, nil
		}
		return nil, fmt.Errorf("persist estimates: %w", err)
	}
	return observation, nil
}

func (s *Service) randomSpotPrice() float64 {
	return minSpotPrice + s.rng.Float64()*spotPriceSpan
}
