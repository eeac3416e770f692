package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	market "main/internal/domain/entity/market"
	domain "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingTicker = errors.New("commodity ticker is required")
	ErrInvalidSide   = errors.New("trade side must be buy or sell")
	ErrNoPosition    = errors.New("no position to sell from")
)

const recentTransactionLimit = 20

// PriceView resolves live commodity prices keyed by lower-cased commodity
// name. The engine satisfies it.
type PriceView interface {
	PricesByName() map[string]float64
}

// TradeRequest is a validated trade order against one commodity token.
type TradeRequest struct {
	CommodityTicker string
	Side            domain.Side
	TokenAmount     float64
	PricePerToken   float64
	Venue           market.Venue
	ChainTxRef      string
}

// Service applies trades to stored positions with weighted-average cost-basis
// accounting and assembles portfolio overviews.
type Service struct {
	repo   interfaces.LedgerRepository
	prices PriceView
	now    func() time.Time
	log    *logrus.Entry
}

func NewService(repo interfaces.LedgerRepository, prices PriceView, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		repo:   repo,
		prices: prices,
		now:    time.Now,
		log:    logger.WithField("component", "portfolio_service"),
	}
}

// ExecuteTrade validates the request, applies it to the user's position and
// persists the transaction plus the post-trade position atomically. Nothing
// is stored when validation or the balance check fails.
func (s *Service) ExecuteTrade(ctx context.Context, userID uuid.UUID, req TradeRequest) (*domain.Transaction, *domain.Position, error) {
	if err := validateRequest(&req); err != nil {
		return nil, nil, err
	}

	existing, err := s.repo.PositionFor(ctx, userID, req.CommodityTicker, req.Venue)
	if err != nil && !errors.Is(err, interfaces.ErrPositionNotFound) {
		return nil, nil, fmt.Errorf("load position: %w", err)
	}

	now := s.now()
	var position *domain.Position
	switch req.Side {
	case domain.SideBuy:
		if existing == nil {
			position, err = domain.NewPosition(userID, req.CommodityTicker, req.Venue, req.TokenAmount, req.PricePerToken, now)
		} else {
			position = existing
			err = position.ApplyBuy(req.TokenAmount, req.PricePerToken, now)
		}
	case domain.SideSell:
		if existing == nil {
			return nil, nil, fmt.Errorf("%w: %w", domain.ErrInsufficientBalance, ErrNoPosition)
		}
		position = existing
		err = position.ApplySell(req.TokenAmount, now)
	}
	if err != nil {
		return nil, nil, err
	}

	txn := &domain.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		CommodityTicker: req.CommodityTicker,
		Side:            req.Side,
		TokenAmount:     req.TokenAmount,
		PricePerToken:   req.PricePerToken,
		TotalValue:      req.TokenAmount * req.PricePerToken,
		ChainTxRef:      req.ChainTxRef,
		Status:          "confirmed",
		CreatedAt:       now,
	}

	if err := s.repo.RecordTrade(ctx, txn, position); err != nil {
		return nil, nil, fmt.Errorf("record trade: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user":   userID,
		"ticker": req.CommodityTicker,
		"side":   req.Side,
		"amount": req.TokenAmount,
	}).Info("trade recorded")
	return txn, position, nil
}

// Overview is the full portfolio read model for one user.
type Overview struct {
	Summary      domain.Summary       `json:"summary"`
	Transactions []domain.Transaction `json:"transactions"`
	Profile      *domain.Profile      `json:"profile,omitempty"`
}

// Overview loads open positions, values them against live prices and attaches
// the recent transaction log and profile. A missing profile is not an error.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	positions, err := s.repo.PositionsFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}

	transactions, err := s.repo.RecentTransactions(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	profile, err := s.repo.ProfileFor(ctx, userID)
	if err != nil && !errors.Is(err, interfaces.ErrProfileNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	prices, err := s.tickerPrices(ctx, positions)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Summary:      domain.Summarize(positions, prices),
		Transactions: transactions,
		Profile:      profile,
	}, nil
}

// tickerPrices joins position tickers to live commodity prices through the
// trading-pair listing names.
func (s *Service) tickerPrices(ctx context.Context, positions []domain.Position) (map[string]float64, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	pairs, err := s.repo.ActiveTradingPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trading pairs: %w", err)
	}

	byName := s.prices.PricesByName()
	prices := make(map[string]float64)
	for _, pair := range pairs {
		if price, ok := byName[strings.ToLower(pair.Name)]; ok {
			prices[pair.Ticker] = price
		}
	}
	return prices, nil
}

func validateRequest(req *TradeRequest) error {
	if strings.TrimSpace(req.CommodityTicker) == "" {
		return ErrMissingTicker
	}
	if !req.Side.IsValid() {
		return ErrInvalidSide
	}
	if req.TokenAmount <= 0 {
		return domain.ErrInvalidAmount
	}
	if req.PricePerToken <= 0 {
		return domain.ErrInvalidPrice
	}
	if req.Venue == "" {
		req.Venue = market.VenueBase
	}
	if !req.Venue.IsValid() {
		return fmt.Errorf("invalid venue: %s", req.Venue)
	}
	return nil
}
