package portfolio

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	market "main/internal/domain/entity/market"
	domain "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	pairs        []market.TradingPair
	positions    map[string]*domain.Position
	transactions []domain.Transaction
	profiles     map[uuid.UUID]*domain.Profile

	recordErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		positions: make(map[string]*domain.Position),
		profiles:  make(map[uuid.UUID]*domain.Profile),
	}
}

func positionKey(userID uuid.UUID, ticker string, venue market.Venue) string {
	return userID.String() + "/" + ticker + "/" + string(venue)
}

func (f *fakeLedger) ActiveTradingPairs(context.Context) ([]market.TradingPair, error) {
	return f.pairs, nil
}

func (f *fakeLedger) UpdatePairEstimates(context.Context, string, float64, float64) error {
	return nil
}

func (f *fakeLedger) PositionFor(_ context.Context, userID uuid.UUID, ticker string, venue market.Venue) (*domain.Position, error) {
	pos, ok := f.positions[positionKey(userID, ticker, venue)]
	if !ok {
		return nil, interfaces.ErrPositionNotFound
	}
	copied := *pos
	return &copied, nil
}

func (f *fakeLedger) PositionsFor(_ context.Context, userID uuid.UUID) ([]domain.Position, error) {
	var out []domain.Position
	for _, pos := range f.positions {
		if pos.UserID == userID {
			out = append(out, *pos)
		}
	}
	return out, nil
}

func (f *fakeLedger) RecordTrade(_ context.Context, txn *domain.Transaction, position *domain.Position) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.transactions = append(f.transactions, *txn)
	copied := *position
	f.positions[positionKey(position.UserID, position.CommodityTicker, position.Venue)] = &copied
	return nil
}

func (f *fakeLedger) RecentTransactions(_ context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for i := len(f.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if f.transactions[i].UserID == userID {
			out = append(out, f.transactions[i])
		}
	}
	return out, nil
}

func (f *fakeLedger) ProfileFor(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, interfaces.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeLedger) Close() {}

type staticPrices map[string]float64

func (p staticPrices) PricesByName() map[string]float64 { return p }

func newTestService(repo interfaces.LedgerRepository, prices PriceView) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewService(repo, prices, log)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestExecuteTradeBuyCreatesPosition(t *testing.T) {
	repo := newFakeLedger()
	svc := newTestService(repo, staticPrices{})
	userID := uuid.New()

	txn, pos, err := svc.ExecuteTrade(context.Background(), userID, TradeRequest{
		CommodityTicker: "GLD",
		Side:            domain.SideBuy,
		TokenAmount:     2,
		PricePerToken:   1900,
	})
	require.NoError(t, err)

	assert.Equal(t, "GLD", txn.CommodityTicker)
	assert.Equal(t, domain.SideBuy, txn.Side)
	assert.Equal(t, 3800.0, txn.TotalValue)
	assert.Equal(t, "confirmed", txn.Status)

	assert.Equal(t, market.VenueBase, pos.Venue, "empty venue defaults to base")
	assert.Equal(t, 2.0, pos.TokenBalance)
	assert.Equal(t, 1900.0, pos.AverageBuyPrice)

	stored, err := repo.PositionFor(context.Background(), userID, "GLD", market.VenueBase)
	require.NoError(t, err)
	assert.Equal(t, 3800.0, stored.TotalInvested)
	require.Len(t, repo.transactions, 1)
}

func TestExecuteTradeBuyBlendsAverage(t *testing.T) {
	repo := newFakeLedger()
	svc := newTestService(repo, staticPrices{})
	userID := uuid.New()

	for _, order := range []struct{ amount, price float64 }{{2, 100}, {3, 200}} {
		_, _, err := svc.ExecuteTrade(context.Background(), userID, TradeRequest{
			CommodityTicker: "OIL",
			Side:            domain.SideBuy,
			TokenAmount:     order.amount,
			PricePerToken:   order.price,
		})
		require.NoError(t, err)
	}

	pos, err := repo.PositionFor(context.Background(), userID, "OIL", market.VenueBase)
	require.NoError(t, err)
	assert.Equal(t, 5.0, pos.TokenBalance)
	assert.InDelta(t, 160.0, pos.AverageBuyPrice, 1e-9)
	assert.Equal(t, 800.0, pos.TotalInvested)
}

func TestExecuteTradeSellReducesProportionally(t *testing.T) {
	repo := newFakeLedger()
	svc := newTestService(repo, staticPrices{})
	userID := uuid.New()

	_, _, err := svc.ExecuteTrade(context.Background(), userID, TradeRequest{
		CommodityTicker: "GLD",
		Side:            domain.SideBuy,
		TokenAmount:     4,
		PricePerToken:   100,
	})
	require.NoError(t, err)

	_, pos, err := svc.ExecuteTrade(context.Background(), userID, TradeRequest{
		CommodityTicker: "GLD",
		Side:            domain.SideSell,
		TokenAmount:     1,
		PricePerToken:   120,
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, pos.TokenBalance)
	assert.Equal(t, 300.0, pos.TotalInvested)
	assert.Equal(t, 100.0, pos.AverageBuyPrice, "average survives sells")
}

func TestExecuteTradeSellWithoutPosition(t *testing.T) {
	repo := newFakeLedger()
	svc := newTestService(repo, staticPrices{})

	_, _, err := svc.ExecuteTrade(context.Background(), uuid.New(), TradeRequest{
		CommodityTicker: "GLD",
		Side:            domain.SideSell,
		TokenAmount:     1,
		PricePerToken:   100,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Empty(t, repo.transactions)
}

func TestExecuteTradeOversell(t *testing.T) {
	repo := newFakeLedger()
	svc := newTestService(repo, staticPrices{})
	userID := uuid.New()

	_, _, err := svc.ExecuteTrade(context.Background(), userID, TradeRequest{
		CommodityTicker: "GLD",
		Side:            domain.SideBuy,
		TokenAmount:     1,
		PricePerToken:   100,
	})
	require.NoError(t, err)

	_, _, err = svc.ExecuteTrade(context.Background(), userID, TradeRequest{
		CommodityTicker: "GLD",
		Side:            domain.SideSell,
		TokenAmount:     2,
		PricePerToken:   100,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	pos, err := repo.PositionFor(context.Background(), userID, "GLD", market.VenueBase)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pos.TokenBalance, "failed sell leaves the stored position untouched")
}

func TestExecuteTradeValidation(t *testing.T) {
	svc := newTestService(newFakeLedger(), staticPrices{})
	userID := uuid.New()

	cases := []struct {
		name string
		req  TradeRequest
		want error
	}{
		{"missing ticker", TradeRequest{Side: domain.SideBuy, TokenAmount: 1, PricePerToken: 1}, ErrMissingTicker},
		{"bad side", TradeRequest{CommodityTicker: "GLD", Side: "hold", TokenAmount: 1, PricePerToken: 1}, ErrInvalidSide},
		{"zero amount", TradeRequest{CommodityTicker: "GLD", Side: domain.SideBuy, TokenAmount: 0, PricePerToken: 1}, domain.ErrInvalidAmount},
		{"negative price", TradeRequest{CommodityTicker: "GLD", Side: domain.SideBuy, TokenAmount: 1, PricePerToken: -1}, domain.ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.ExecuteTrade(context.Background(), userID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExecuteTradeStorageFailure(t *testing.T) {
	repo := newFakeLedger()
	repo.recordErr = errors.New("connection reset")
	svc := newTestService(repo, staticPrices{})

	_, _, err := svc.ExecuteTrade(context.Background(), uuid.New(), TradeRequest{
		CommodityTicker: "GLD",
		Side:            domain.SideBuy,
		TokenAmount:     1,
		PricePerToken:   100,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record trade")
	assert.Empty(t, repo.positions)
}

func TestOverview(t *testing.T) {
	repo := newFakeLedger()
	repo.pairs = []market.TradingPair{
		{Ticker: "GLD", Name: "Gold", Venue: market.VenueBase, IsActive: true},
	}
	userID := uuid.New()
	repo.profiles[userID] = &domain.Profile{UserID: userID, DisplayName: "trader"}

	svc := newTestService(repo, staticPrices{"gold": 150})

	_, _, err := svc.ExecuteTrade(context.Background(), userID, TradeRequest{
		CommodityTicker: "GLD",
		Side:            domain.SideBuy,
		TokenAmount:     1,
		PricePerToken:   100,
	})
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 150.0, overview.Summary.TotalValue)
	assert.Equal(t, 50.0, overview.Summary.TotalProfitLoss)
	assert.InDelta(t, 50.0, overview.Summary.TotalProfitLossPercent, 1e-9)
	require.Len(t, overview.Transactions, 1)
	require.NotNil(t, overview.Profile)
	assert.Equal(t, "trader", overview.Profile.DisplayName)
}

func TestOverviewMissingProfileAndPrice(t *testing.T) {
	repo := newFakeLedger()
	userID := uuid.New()
	svc := newTestService(repo, staticPrices{})

	_, _, err := svc.ExecuteTrade(context.Background(), userID, TradeRequest{
		CommodityTicker: "UNL",
		Side:            domain.SideBuy,
		TokenAmount:     2,
		PricePerToken:   40,
	})
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background(), userID)
	require.NoError(t, err)

	assert.Nil(t, overview.Profile)
	// Unknown price falls back to cost basis: value 80, no profit.
	assert.Equal(t, 80.0, overview.Summary.TotalValue)
	assert.Equal(t, 0.0, overview.Summary.TotalProfitLoss)
}
