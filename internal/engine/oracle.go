package engine

import (
	"time"

	oracle "main/internal/domain/entity/oracle"
)

const (
	// baseBlockNumber anchors the first transaction of a fresh publication log.
	baseBlockNumber = 16_000_000
	// maxBlockStep bounds the random block advance between publications.
	maxBlockStep = 100

	minGasUsed = 50_000
	maxGasUsed = 150_000

	seedTransactions = 8
)

var networks = []string{"Ethereum", "Polygon"}

// publish records one price publication on the record: a fresh transaction is
// prepended (log capped at oracle.MaxTransactions), the latest price and due
// times advance, and the record reports Active again.
func publish(rec *oracle.Record, currentPrice float64, rng Source, now time.Time, interval time.Duration) {
	txn := oracle.Transaction{
		Hash:        mintHex(rng, 64),
		Timestamp:   now,
		OldPrice:    rec.LatestPrice,
		NewPrice:    currentPrice,
		BlockNumber: nextBlockNumber(rec, rng),
		GasUsed:     int64(minGasUsed + rng.Intn(maxGasUsed-minGasUsed)),
	}

	rec.Transactions = append([]oracle.Transaction{txn}, rec.Transactions...)
	if len(rec.Transactions) > oracle.MaxTransactions {
		rec.Transactions = rec.Transactions[:oracle.MaxTransactions]
	}
	rec.LatestPrice = currentPrice
	rec.LastPublishedAt = now
	rec.NextPublishDueAt = now.Add(interval)
	rec.Status = oracle.StatusActive
}

// nextBlockNumber advances strictly past the newest logged block, or starts
// from the baseline for an empty log.
func nextBlockNumber(rec *oracle.Record, rng Source) int64 {
	last := rec.LastBlockNumber()
	if last == 0 {
		return baseBlockNumber
	}
	return last + int64(rng.Intn(maxBlockStep)) + 1
}

// seedOracle builds the initial publication record for a commodity, backfilled
// with a short hourly transaction history so the ledger view is never empty.
func seedOracle(commodityID string, price float64, rng Source, now time.Time, interval time.Duration) *oracle.Record {
	rec := &oracle.Record{
		ID:          "oracle-" + commodityID,
		CommodityID: commodityID,
		LatestPrice: price,
		Status:      oracle.StatusActive,
		Network:     networks[rng.Intn(len(networks))],
		Address:     mintHex(rng, 40),
	}

	block := int64(baseBlockNumber)
	current := price
	for i := seedTransactions; i > 0; i-- {
		old := current
		pct := drawPercent(rng, maxTickPercent)
		current = round2(old + old*pct/100)
		if current <= 0 {
			current = priceFloor
		}
		txn := oracle.Transaction{
			Hash:        mintHex(rng, 64),
			Timestamp:   now.Add(-time.Duration(i) * time.Hour),
			OldPrice:    old,
			NewPrice:    current,
			BlockNumber: block,
			GasUsed:     int64(minGasUsed + rng.Intn(maxGasUsed-minGasUsed)),
		}
		block += int64(rng.Intn(maxBlockStep)) + 1
		rec.Transactions = append([]oracle.Transaction{txn}, rec.Transactions...)
	}

	rec.LatestPrice = rec.Transactions[0].NewPrice
	rec.LastPublishedAt = rec.Transactions[0].Timestamp
	rec.NextPublishDueAt = rec.LastPublishedAt.Add(interval)
	return rec
}
