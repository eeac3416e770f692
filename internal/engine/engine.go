package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	commodity "main/internal/domain/entity/commodity"
	oracle "main/internal/domain/entity/oracle"

	"github.com/sirupsen/logrus"
)

var (
	ErrRefreshInFlight  = errors.New("refresh already in flight")
	ErrUnknownCommodity = errors.New("unknown commodity")
)

// Options configures a new engine instance.
type Options struct {
	// PublishInterval spaces oracle publications (production: 6h).
	PublishInterval time.Duration
	// Source supplies randomness; defaults to a time-seeded source.
	Source Source
	// Now supplies the clock; defaults to time.Now. Tests pin it.
	Now func() time.Time
	// Catalog overrides the built-in commodity catalog when non-empty.
	Catalog []commodity.CatalogEntry

	Logger *logrus.Logger
}

// Engine holds the live simulated market state: commodity prices, oracle
// publication records and rolling price history. All mutation funnels through
// one lock; a full refresh pass (evolve → publish → history) runs atomically
// with respect to readers.
type Engine struct {
	mu       sync.Mutex
	log      *logrus.Entry
	rng      Source
	now      func() time.Time
	interval time.Duration

	order   []string
	byID    map[string]*commodity.Commodity
	oracles map[string]*oracle.Record
	history map[string]*History

	refreshing    atomic.Bool
	lastRefreshed time.Time
	subscribers   []func()
	subMu         sync.Mutex
}

// New seeds an engine from the catalog: live prices with an initial wider
// draw, a backfilled oracle record and a 24-sample history window per
// commodity.
func New(opts Options) *Engine {
	if opts.Source == nil {
		opts.Source = NewSource()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PublishInterval <= 0 {
		opts.PublishInterval = 6 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	catalog := opts.Catalog
	if len(catalog) == 0 {
		catalog = commodity.Catalog()
	}

	e := &Engine{
		log:      opts.Logger.WithField("component", "engine"),
		rng:      opts.Source,
		now:      opts.Now,
		interval: opts.PublishInterval,
		byID:     make(map[string]*commodity.Commodity, len(catalog)),
		oracles:  make(map[string]*oracle.Record, len(catalog)),
		history:  make(map[string]*History, len(catalog)),
	}

	now := e.now()
	for _, entry := range catalog {
		c := seedCommodity(entry, e.rng, now)
		e.order = append(e.order, c.ID)
		e.byID[c.ID] = &c
		e.oracles[c.ID] = seedOracle(c.ID, c.Price, e.rng, now, e.interval)
		e.history[c.ID] = seedHistory(c.Price, e.rng, now)
	}
	e.lastRefreshed = now

	e.log.WithField("commodities", len(catalog)).Info("engine seeded")
	return e
}

// Subscribe registers a callback invoked after every completed refresh pass.
// Callbacks run outside the engine lock.
func (e *Engine) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	e.subMu.Lock()
	e.subscribers = append(e.subscribers, fn)
	e.subMu.Unlock()
}

// Refresh runs one full update pass: every price evolves, every oracle
// publishes against the new price, and every history window gains a sample —
// in that order. A second refresh while one is outstanding returns
// ErrRefreshInFlight without queueing; a cancelled context returns before any
// state is touched.
func (e *Engine) Refresh(ctx context.Context) error {
	if !e.refreshing.CompareAndSwap(false, true) {
		return ErrRefreshInFlight
	}
	defer e.refreshing.Store(false)

	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	now := e.now()
	for _, id := range e.order {
		c := e.byID[id]
		*c = evolve(*c, e.rng, now)
	}
	for _, id := range e.order {
		c, ok := e.byID[id]
		if !ok {
			continue
		}
		publish(e.oracles[id], c.Price, e.rng, now, e.interval)
	}
	for _, id := range e.order {
		e.history[id].Append(now, e.byID[id].Price)
	}
	e.lastRefreshed = now
	e.mu.Unlock()

	e.notify()
	e.log.WithField("commodities", len(e.order)).Debug("refresh pass complete")
	return nil
}

func (e *Engine) notify() {
	e.subMu.Lock()
	subs := make([]func(), len(e.subscribers))
	copy(subs, e.subscribers)
	e.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Commodities returns a snapshot of all tracked commodities in catalog order.
func (e *Engine) Commodities() []commodity.Commodity {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]commodity.Commodity, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.byID[id])
	}
	return out
}

// CommoditiesByCategory filters the snapshot to one category.
func (e *Engine) CommoditiesByCategory(cat commodity.Category) []commodity.Commodity {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []commodity.Commodity
	for _, id := range e.order {
		if e.byID[id].Category == cat {
			out = append(out, *e.byID[id])
		}
	}
	return out
}

// Commodity looks up one commodity by ID.
func (e *Engine) Commodity(id string) (commodity.Commodity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.byID[id]
	if !ok {
		return commodity.Commodity{}, ErrUnknownCommodity
	}
	return *c, nil
}

// Oracles snapshots every publication record. Records past their due time
// report Pending until the next refresh publishes again.
func (e *Engine) Oracles() []oracle.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	out := make([]oracle.Record, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, snapshotOracle(e.oracles[id], now))
	}
	return out
}

// OracleFor snapshots the publication record of one commodity.
func (e *Engine) OracleFor(commodityID string) (oracle.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.oracles[commodityID]
	if !ok {
		return oracle.Record{}, ErrUnknownCommodity
	}
	return snapshotOracle(rec, e.now()), nil
}

func snapshotOracle(rec *oracle.Record, now time.Time) oracle.Record {
	out := *rec
	out.Transactions = make([]oracle.Transaction, len(rec.Transactions))
	copy(out.Transactions, rec.Transactions)
	if out.Status == oracle.StatusActive && out.Overdue(now) {
		out.Status = oracle.StatusPending
	}
	return out
}

// HistoryFor returns the rolling price window of one commodity, oldest first.
func (e *Engine) HistoryFor(commodityID string) ([]Sample, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.history[commodityID]
	if !ok {
		return nil, ErrUnknownCommodity
	}
	return h.Samples(), nil
}

// CurrentPrices maps commodity IDs to the live price.
func (e *Engine) CurrentPrices() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.order))
	for _, id := range e.order {
		out[id] = e.byID[id].Price
	}
	return out
}

// PricesByName maps lower-cased commodity names to the live price. Trading
// pairs and positions reference commodities by listed name rather than
// catalog ID, so valuation joins through this view.
func (e *Engine) PricesByName() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.order))
	for _, id := range e.order {
		c := e.byID[id]
		out[strings.ToLower(c.Name)] = c.Price
	}
	return out
}

// LastRefreshed reports when the last full pass completed.
func (e *Engine) LastRefreshed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRefreshed
}
