package oracle

import (
	"time"
)

type Status string

const (
	StatusActive  Status = "Active"
	StatusPending Status = "Pending"
	StatusFailed  Status = "Failed"
)

func (s Status) String() string {
	return string(s)
}

// Transaction is one simulated on-chain price publication. Immutable once
// created.
type Transaction struct {
	Hash        string    `json:"tx_hash"`
	Timestamp   time.Time `json:"timestamp"`
	OldPrice    float64   `json:"old_price"`
	NewPrice    float64   `json:"new_price"`
	BlockNumber int64     `json:"block_number"`
	GasUsed     int64     `json:"gas_used"`
}

// Record keeps the publication state of one commodity's price oracle.
// Transactions are newest-first and capped at MaxTransactions; while the
// record is Active, Transactions[0].NewPrice equals LatestPrice.
type Record struct {
	ID               string        `json:"id"`
	CommodityID      string        `json:"commodity_id"`
	LatestPrice      float64       `json:"latest_price"`
	LastPublishedAt  time.Time     `json:"last_published_at"`
	NextPublishDueAt time.Time     `json:"next_publish_due_at"`
	Status           Status        `json:"status"`
	Network          string        `json:"network"`
	Address          string        `json:"address"`
	Transactions     []Transaction `json:"transactions"`
}

// MaxTransactions bounds the per-record publication log.
const MaxTransactions = 10

// Overdue reports whether the next scheduled publication has been missed.
func (r *Record) Overdue(now time.Time) bool {
	return now.After(r.NextPublishDueAt)
}

// TimeUntilNextPublish returns the remaining wait before the next publication
// is due. The duration is never negative; overdue records return zero and
// overdue=true.
func (r *Record) TimeUntilNextPublish(now time.Time) (remaining time.Duration, overdue bool) {
	if r.Overdue(now) {
		return 0, true
	}
	return r.NextPublishDueAt.Sub(now), false
}

// LastBlockNumber returns the highest block number in the log, or zero for an
// empty log. Transactions are newest-first, so the head holds the maximum.
func (r *Record) LastBlockNumber() int64 {
	if len(r.Transactions) == 0 {
		return 0
	}
	return r.Transactions[0].BlockNumber
}
