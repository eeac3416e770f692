package engine

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields the randomness behind the price walk, oracle transactions and
// spread estimation. *math/rand.Rand satisfies it; tests pass a seeded
// instance for deterministic runs.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// NewSource returns a time-seeded source safe for use behind the engine lock.
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// LockedSource wraps a Source with a mutex so components outside the engine
// lock (quote enrichment, spread sampling) can share one stream.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *LockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

const hexDigits = "0123456789abcdef"

// mintHex draws n lowercase hex characters prefixed with 0x. Used for
// simulated transaction hashes and ledger addresses.
func mintHex(rng Source, n int) string {
	buf := make([]byte, 0, n+2)
	buf = append(buf, '0', 'x')
	for i := 0; i < n; i++ {
		buf = append(buf, hexDigits[rng.Intn(len(hexDigits))])
	}
	return string(buf)
}
