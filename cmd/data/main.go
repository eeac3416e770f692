package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	market "main/internal/domain/entity/market"
	"main/internal/infrastructure/ledger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Tokenized commodity listings seeded on both venues. Contract refs are the
// deployed token addresses per venue.
var seedPairs = []market.TradingPair{
	{Ticker: "GLD", Name: "Gold", Venue: market.VenueBase, ContractRef: "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984", LiquidityUSD: 2_400_000, DailyVolumeUSD: 310_000, IsActive: true},
	{Ticker: "GLD", Name: "Gold", Venue: market.VenueSolana, ContractRef: "GLDsoLt4vXk5yW8pQzr2nJmKqA7wF3cD9eB1hU6iT2oP", LiquidityUSD: 1_900_000, DailyVolumeUSD: 280_000, IsActive: true},
	{Ticker: "SLV", Name: "Silver", Venue: market.VenueBase, ContractRef: "0x2a71c63fa3fc9b212f7a86af6c7cf0b23b12e5d6", LiquidityUSD: 860_000, DailyVolumeUSD: 120_000, IsActive: true},
	{Ticker: "SLV", Name: "Silver", Venue: market.VenueSolana, ContractRef: "SLVsoA2mK9xT4bW7nQ3rE8cZ1dF5gH6jY0uI9oP2aS4d", LiquidityUSD: 740_000, DailyVolumeUSD: 95_000, IsActive: true},
	{Ticker: "OIL", Name: "Crude Oil", Venue: market.VenueBase, ContractRef: "0x3b82d64fb4fd0c323f8b97bf7d8df1c34c23f6e7", LiquidityUSD: 1_500_000, DailyVolumeUSD: 420_000, IsActive: true},
	{Ticker: "OIL", Name: "Crude Oil", Venue: market.VenueSolana, ContractRef: "OILso9zX3cV5bN8mQ1wE4rT7yU2iO6pA0sD3fG5hJ8kL", LiquidityUSD: 1_100_000, DailyVolumeUSD: 380_000, IsActive: true},
	{Ticker: "NGAS", Name: "Natural Gas", Venue: market.VenueBase, ContractRef: "0x4c93e75fc5fe1d434f9ca8cf8e9ef2d45d34f7f8", LiquidityUSD: 620_000, DailyVolumeUSD: 150_000, IsActive: true},
	{Ticker: "WHT", Name: "Wheat", Venue: market.VenueBase, ContractRef: "0x5da4f860d6ff2e545fadb9df9faf03e56e45f809", LiquidityUSD: 310_000, DailyVolumeUSD: 45_000, IsActive: true},
	{Ticker: "WHT", Name: "Wheat", Venue: market.VenueSolana, ContractRef: "WHTso5aB8cD1eF4gH7jK0mN3pQ6rS9tU2vW5xY8zA1bC", LiquidityUSD: 270_000, DailyVolumeUSD: 38_000, IsActive: true},
	{Ticker: "CORN", Name: "Corn", Venue: market.VenueBase, ContractRef: "0x6eb50971e70a3f656abec0e00aba14f67f56091a", LiquidityUSD: 280_000, DailyVolumeUSD: 33_000, IsActive: true},
	{Ticker: "COFF", Name: "Coffee", Venue: market.VenueSolana, ContractRef: "COFsoB3dE6fG9hJ2kM5nP8qR1sT4uV7wX0yZ3aB6cD9e", LiquidityUSD: 190_000, DailyVolumeUSD: 26_000, IsActive: true},
	{Ticker: "COC", Name: "Cocoa", Venue: market.VenueBase, ContractRef: "0x7fc60a82f8004g767hcfd1f010c025a78a670a2b", LiquidityUSD: 450_000, DailyVolumeUSD: 88_000, IsActive: true},
	{Ticker: "COC", Name: "Cocoa", Venue: market.VenueSolana, ContractRef: "COCsoC4eF7gH0jK3mN6pQ9rS2tU5vW8xY1zA4bC7dE0f", LiquidityUSD: 410_000, DailyVolumeUSD: 76_000, IsActive: true},
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS trading_pairs (
		ticker TEXT NOT NULL,
		name TEXT NOT NULL,
		venue TEXT NOT NULL,
		contract_ref TEXT NOT NULL,
		liquidity_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
		daily_volume_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (ticker, venue)
	)`,
	`CREATE TABLE IF NOT EXISTS user_positions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		commodity_ticker TEXT NOT NULL,
		venue TEXT NOT NULL,
		token_balance DOUBLE PRECISION NOT NULL,
		average_buy_price DOUBLE PRECISION NOT NULL,
		total_invested DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, commodity_ticker, venue)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		commodity_ticker TEXT NOT NULL,
		side TEXT NOT NULL,
		token_amount DOUBLE PRECISION NOT NULL,
		price_per_token DOUBLE PRECISION NOT NULL,
		total_value DOUBLE PRECISION NOT NULL,
		chain_tx_ref TEXT,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_user_created
		ON transactions (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY,
		display_name TEXT NOT NULL,
		wallet_address TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		logger.Fatal("DATABASE_DSN is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logger.Fatalf("apply schema: %v", err)
		}
	}
	logger.Info("schema applied")

	repo, err := ledger.NewRepository(ctx, dsn)
	if err != nil {
		logger.Fatalf("init ledger repo: %v", err)
	}
	defer repo.Close()

	for i := range seedPairs {
		if err := repo.UpsertTradingPair(ctx, &seedPairs[i]); err != nil {
			logger.Fatalf("seed pair %s/%s: %v", seedPairs[i].Ticker, seedPairs[i].Venue, err)
		}
	}
	logger.WithField("pairs", len(seedPairs)).Info("trading pairs seeded")
}
