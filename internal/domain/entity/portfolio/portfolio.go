package portfolio

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

func NewSide(s string) (Side, error) {
	side := Side(s)
	if !side.IsValid() {
		return "", fmt.Errorf("invalid trade side: %s", s)
	}
	return side, nil
}

// Transaction is one recorded trade against a user position.
type Transaction struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	CommodityTicker string    `json:"commodity_ticker"`
	Side            Side      `json:"side"`
	TokenAmount     float64   `json:"token_amount"`
	PricePerToken   float64   `json:"price_per_token"`
	TotalValue      float64   `json:"total_value"`
	ChainTxRef      string    `json:"chain_tx_ref,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// Profile is the stored dashboard identity of a user.
type Profile struct {
	UserID        uuid.UUID `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	WalletAddress string    `json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValuedPosition pairs a stored position with its mark-to-market state.
type ValuedPosition struct {
	Position
	Valuation
}

// Summary aggregates valued positions into portfolio totals.
type Summary struct {
	TotalValue             float64          `json:"total_value"`
	TotalProfitLoss        float64          `json:"total_profit_loss"`
	TotalProfitLossPercent float64          `json:"total_profit_loss_percent"`
	Positions              []ValuedPosition `json:"positions"`
}

// Summarize values each position against current prices (keyed by commodity
// ticker) and aggregates the totals. Positions without a known price are
// valued at their cost basis. The aggregate percent divides realized totals
// by invested capital (totalValue − totalProfitLoss), guarding a zero
// denominator.
func Summarize(positions []Position, prices map[string]float64) Summary {
	summary := Summary{Positions: make([]ValuedPosition, 0, len(positions))}
	for _, pos := range positions {
		price, ok := prices[pos.CommodityTicker]
		if !ok {
			price = pos.AverageBuyPrice
		}
		valuation := pos.Valuate(price)
		summary.TotalValue += valuation.Value
		summary.TotalProfitLoss += valuation.ProfitLoss
		summary.Positions = append(summary.Positions, ValuedPosition{Position: pos, Valuation: valuation})
	}
	if invested := summary.TotalValue - summary.TotalProfitLoss; invested != 0 {
		summary.TotalProfitLossPercent = summary.TotalProfitLoss / invested * 100
	}
	return summary
}
