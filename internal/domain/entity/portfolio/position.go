package portfolio

import (
	"errors"
	"fmt"
	"time"

	market "main/internal/domain/entity/market"

	"github.com/google/uuid"
)

var (
	ErrInsufficientBalance = errors.New("sell amount exceeds token balance")
	ErrInvalidAmount       = errors.New("token amount must be positive")
	ErrInvalidPrice        = errors.New("price per token must be positive")
)

// Position is a user's token holding for one commodity on one venue, carrying
// weighted-average cost-basis state.
type Position struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	CommodityTicker string       `json:"commodity_ticker"`
	Venue           market.Venue `json:"venue"`
	TokenBalance    float64      `json:"token_balance"`
	AverageBuyPrice float64      `json:"average_buy_price"`
	TotalInvested   float64      `json:"total_invested"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// NewPosition opens a position with a first buy.
func NewPosition(userID uuid.UUID, ticker string, venue market.Venue, amount, price float64, now time.Time) (*Position, error) {
	if err := validateTrade(amount, price); err != nil {
		return nil, err
	}
	return &Position{
		ID:              uuid.New(),
		UserID:          userID,
		CommodityTicker: ticker,
		Venue:           venue,
		TokenBalance:    amount,
		AverageBuyPrice: price,
		TotalInvested:   amount * price,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ApplyBuy blends the purchase into the weighted-average cost basis.
func (p *Position) ApplyBuy(amount, price float64, now time.Time) error {
	if err := validateTrade(amount, price); err != nil {
		return err
	}
	newBalance := p.TokenBalance + amount
	newInvested := p.TotalInvested + amount*price
	p.TokenBalance = newBalance
	p.TotalInvested = newInvested
	p.AverageBuyPrice = newInvested / newBalance
	p.UpdatedAt = now
	return nil
}

// ApplySell reduces the balance and scales invested capital by the proportion
// sold. The average buy price is left unchanged; only unrealized P&L against
// the current market price is tracked. A sell larger than the balance fails
// with ErrInsufficientBalance and mutates nothing.
func (p *Position) ApplySell(amount float64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > p.TokenBalance {
		return fmt.Errorf("%w: have %.8f, want %.8f", ErrInsufficientBalance, p.TokenBalance, amount)
	}
	proportion := amount / p.TokenBalance
	p.TokenBalance -= amount
	p.TotalInvested *= 1 - proportion
	p.UpdatedAt = now
	return nil
}

// Valuation is the mark-to-market state of a position at a current price.
type Valuation struct {
	CurrentPrice      float64 `json:"current_price"`
	Value             float64 `json:"value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// Valuate marks the position against the given current price.
func (p *Position) Valuate(currentPrice float64) Valuation {
	v := Valuation{
		CurrentPrice: currentPrice,
		Value:        currentPrice * p.TokenBalance,
		ProfitLoss:   (currentPrice - p.AverageBuyPrice) * p.TokenBalance,
	}
	if p.AverageBuyPrice != 0 {
		v.ProfitLossPercent = (currentPrice - p.AverageBuyPrice) / p.AverageBuyPrice * 100
	}
	return v
}

func validateTrade(amount, price float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
