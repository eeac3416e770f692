package ledger

import (
	"context"
	"errors"
	"fmt"

	market "main/internal/domain/entity/market"
	portfolio "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores trading pairs and per-user portfolio accounting in
// Postgres. It satisfies interfaces.LedgerRepository.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repository) ActiveTradingPairs(ctx context.Context) ([]market.TradingPair, error) {
	const query = `
		SELECT ticker, name, venue, contract_ref, liquidity_usd, daily_volume_usd, is_active
		FROM trading_pairs
		WHERE is_active = TRUE
		ORDER BY ticker, venue`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []market.TradingPair
	for rows.Next() {
		var pair market.TradingPair
		if err := rows.Scan(
			&pair.Ticker,
			&pair.Name,
			&pair.Venue,
			&pair.ContractRef,
			&pair.LiquidityUSD,
			&pair.DailyVolumeUSD,
			&pair.IsActive,
		); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

func (r *Repository) UpdatePairEstimates(ctx context.Context, contractRef string, liquidityUSD, dailyVolumeUSD float64) error {
	const query = `
		UPDATE trading_pairs
		SET liquidity_usd=$2,
			daily_volume_usd=$3
		WHERE contract_ref=$1`

	cmdTag, err := r.pool.Exec(ctx, query, contractRef, liquidityUSD, dailyVolumeUSD)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return interfaces.ErrPairNotFound
	}
	return nil
}

func (r *Repository) UpsertTradingPair(ctx context.Context, pair *market.TradingPair) error {
	if pair == nil {
		return errors.New("trading pair is nil")
	}
	const query = `
		INSERT INTO trading_pairs (ticker, name, venue, contract_ref, liquidity_usd, daily_volume_usd, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (ticker, venue) DO UPDATE
		SET name=EXCLUDED.name,
			contract_ref=EXCLUDED.contract_ref,
			liquidity_usd=EXCLUDED.liquidity_usd,
			daily_volume_usd=EXCLUDED.daily_volume_usd,
			is_active=EXCLUDED.is_active`

	_, err := r.pool.Exec(ctx, query,
		pair.Ticker,
		pair.Name,
		pair.Venue,
		pair.ContractRef,
		pair.LiquidityUSD,
		pair.DailyVolumeUSD,
		pair.IsActive,
	)
	return err
}

func (r *Repository) PositionFor(ctx context.Context, userID uuid.UUID, ticker string, venue market.Venue) (*portfolio.Position, error) {
	const query = `
		SELECT id, user_id, commodity_ticker, venue, token_balance, average_buy_price, total_invested, created_at, updated_at
		FROM user_positions
		WHERE user_id=$1 AND commodity_ticker=$2 AND venue=$3`

	row := r.pool.QueryRow(ctx, query, userID, ticker, venue)
	position := &portfolio.Position{}
	if err := scanPositionInto(row, position); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrPositionNotFound
		}
		return nil, err
	}
	return position, nil
}

func (r *Repository) PositionsFor(ctx context.Context, userID uuid.UUID) ([]portfolio.Position, error) {
	const query = `
		SELECT id, user_id, commodity_ticker, venue, token_balance, average_buy_price, total_invested, created_at, updated_at
		FROM user_positions
		WHERE user_id=$1 AND token_balance > 0
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []portfolio.Position
	for rows.Next() {
		var position portfolio.Position
		if err := scanPositionInto(rows, &position); err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, rows.Err()
}

// RecordTrade persists the transaction and the post-trade position state in
// one database transaction. A failure on either side rolls back both.
func (r *Repository) RecordTrade(ctx context.Context, txn *portfolio.Transaction, position *portfolio.Position) error {
	if txn == nil || position == nil {
		return errors.New("transaction and position are required")
	}
	return r.withTx(ctx, func(tx pgx.Tx) error {
		const insertTxn = `
			INSERT INTO transactions (id, user_id, commodity_ticker, side, token_amount, price_per_token, total_value, chain_tx_ref, status, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

		if _, err := tx.Exec(ctx, insertTxn,
			txn.ID,
			txn.UserID,
			txn.CommodityTicker,
			txn.Side,
			txn.TokenAmount,
			txn.PricePerToken,
			txn.TotalValue,
			txn.ChainTxRef,
			txn.Status,
			txn.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		const upsertPosition = `
			INSERT INTO user_positions (id, user_id, commodity_ticker, venue, token_balance, average_buy_price, total_invested, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (user_id, commodity_ticker, venue) DO UPDATE
			SET token_balance=EXCLUDED.token_balance,
				average_buy_price=EXCLUDED.average_buy_price,
				total_invested=EXCLUDED.total_invested,
				updated_at=EXCLUDED.updated_at`

		if _, err := tx.Exec(ctx, upsertPosition,
			position.ID,
			position.UserID,
			position.CommodityTicker,
			position.Venue,
			position.TokenBalance,
			position.AverageBuyPrice,
			position.TotalInvested,
			position.CreatedAt,
			position.UpdatedAt,
		); err != nil {
			return fmt.Errorf("upsert position: %w", err)
		}
		return nil
	})
}

func (r *Repository) RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]portfolio.Transaction, error) {
	const query = `
		SELECT id, user_id, commodity_ticker, side, token_amount, price_per_token, total_value, chain_tx_ref, status, created_at
		FROM transactions
		WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []portfolio.Transaction
	for rows.Next() {
		var txn portfolio.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.CommodityTicker,
			&txn.Side,
			&txn.TokenAmount,
			&txn.PricePerToken,
			&txn.TotalValue,
			&txn.ChainTxRef,
			&txn.Status,
			&txn.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

func (r *Repository) ProfileFor(ctx context.Context, userID uuid.UUID) (*portfolio.Profile, error) {
	const query = `
		SELECT user_id, display_name, wallet_address, created_at
		FROM profiles
		WHERE user_id=$1`

	profile := &portfolio.Profile{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.WalletAddress,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interfaces.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *Repository) UpsertProfile(ctx context.Context, profile *portfolio.Profile) error {
	if profile == nil {
		return errors.New("profile is nil")
	}
	const query = `
		INSERT INTO profiles (user_id, display_name, wallet_address, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name=EXCLUDED.display_name,
			wallet_address=EXCLUDED.wallet_address`

	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.WalletAddress,
		profile.CreatedAt,
	)
	return err
}

func scanPositionInto(row pgx.Row, position *portfolio.Position) error {
	return row.Scan(
		&position.ID,
		&position.UserID,
		&position.CommodityTicker,
		&position.Venue,
		&position.TokenBalance,
		&position.AverageBuyPrice,
		&position.TotalInvested,
		&position.CreatedAt,
		&position.UpdatedAt,
	)
}

func (r *Repository) withTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
