package interfaces

import (
	"context"
	"errors"

	market "main/internal/domain/entity/market"
	portfolio "main/internal/domain/entity/portfolio"

	"github.com/google/uuid"
)

var (
	ErrPositionNotFound = errors.New("position not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrPairNotFound     = errors.New("trading pair not found")
)

// LedgerRepository is the durable store behind trading pairs and per-user
// portfolio accounting.
type LedgerRepository interface {
	ActiveTradingPairs(ctx context.Context) ([]market.TradingPair, error)
	UpdatePairEstimates(ctx context.Context, contractRef string, liquidityUSD, dailyVolumeUSD float64) error

	PositionFor(ctx context.Context, userID uuid.UUID, ticker string, venue market.Venue) (*portfolio.Position, error)
	PositionsFor(ctx context.Context, userID uuid.UUID) ([]portfolio.Position, error)

	// RecordTrade persists the transaction and upserts the post-trade
	// position state in one storage transaction.
	RecordTrade(ctx context.Context, txn *portfolio.Transaction, position *portfolio.Position) error
	RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]portfolio.Transaction, error)

	ProfileFor(ctx context.Context, userID uuid.UUID) (*portfolio.Profile, error)

	Close()
}
