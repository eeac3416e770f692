package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	commodity "main/internal/domain/entity/commodity"
	oracle "main/internal/domain/entity/oracle"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testCatalog() []commodity.CatalogEntry {
	return []commodity.CatalogEntry{
		{ID: "gold", Name: "Gold", Price: 2381.90, Unit: "USD/t oz.", Category: commodity.CategoryMetals},
		{ID: "crude-oil", Name: "Crude Oil", Price: 82.79, Unit: "USD/Bbl", Category: commodity.CategoryEnergy},
		{ID: "cocoa", Name: "Cocoa", Price: 10084.00, Unit: "USD/T", Category: commodity.CategorySofts},
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestEngine(t *testing.T, seed int64) (*Engine, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	e := New(Options{
		PublishInterval: 6 * time.Hour,
		Source:          testRand(seed),
		Now:             clock.Now,
		Catalog:         testCatalog(),
		Logger:          quietLogger(),
	})
	return e, clock
}

func TestNew_SeedsAllState(t *testing.T) {
	e, _ := newTestEngine(t, 1)

	commodities := e.Commodities()
	require.Len(t, commodities, 3)
	assert.Equal(t, "gold", commodities[0].ID)

	for _, c := range commodities {
		rec, err := e.OracleFor(c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, rec.CommodityID)
		assert.Len(t, rec.Transactions, seedTransactions)

		samples, err := e.HistoryFor(c.ID)
		require.NoError(t, err)
		assert.Len(t, samples, HistoryCapacity)
	}
}

func TestRefresh_EvolvesPublishesAppends(t *testing.T) {
	e, clock := newTestEngine(t, 2)
	before := e.Commodities()
	clock.Advance(time.Minute)

	require.NoError(t, e.Refresh(context.Background()))

	after := e.Commodities()
	for i, c := range after {
		assert.Equal(t, clock.Now(), c.LastUpdate)

		rec, err := e.OracleFor(c.ID)
		require.NoError(t, err)
		// Oracle publishes against the freshly evolved price.
		assert.Equal(t, c.Price, rec.LatestPrice)
		assert.Equal(t, before[i].Price, rec.Transactions[0].OldPrice)
		assert.Equal(t, clock.Now(), rec.LastPublishedAt)

		samples, err := e.HistoryFor(c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Price, samples[len(samples)-1].Price)
		assert.Equal(t, clock.Now(), samples[len(samples)-1].Timestamp)
	}
	assert.Equal(t, clock.Now(), e.LastRefreshed())
}

func TestRefresh_CancelledContextMutatesNothing(t *testing.T) {
	e, clock := newTestEngine(t, 3)
	before := e.Commodities()
	clock.Advance(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Refresh(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, e.Commodities())
}

func TestRefresh_SecondCallCoalesced(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	e.refreshing.Store(true)
	err := e.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshInFlight)
	e.refreshing.Store(false)

	require.NoError(t, e.Refresh(context.Background()))
}

func TestRefresh_NotifiesSubscribers(t *testing.T) {
	e, _ := newTestEngine(t, 5)

	var calls int
	e.Subscribe(func() { calls++ })
	e.Subscribe(nil)

	require.NoError(t, e.Refresh(context.Background()))
	require.NoError(t, e.Refresh(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestCommoditiesByCategory(t *testing.T) {
	e, _ := newTestEngine(t, 6)

	metals := e.CommoditiesByCategory(commodity.CategoryMetals)
	require.Len(t, metals, 1)
	assert.Equal(t, "gold", metals[0].ID)

	assert.Empty(t, e.CommoditiesByCategory(commodity.CategoryLivestock))
}

func TestCommodity_UnknownID(t *testing.T) {
	e, _ := newTestEngine(t, 7)

	_, err := e.Commodity("unobtanium")
	assert.ErrorIs(t, err, ErrUnknownCommodity)

	_, err = e.OracleFor("unobtanium")
	assert.ErrorIs(t, err, ErrUnknownCommodity)

	_, err = e.HistoryFor("unobtanium")
	assert.ErrorIs(t, err, ErrUnknownCommodity)
}

func TestOracles_OverdueReportsPending(t *testing.T) {
	e, clock := newTestEngine(t, 8)

	require.NoError(t, e.Refresh(context.Background()))
	clock.Advance(7 * time.Hour)

	for _, rec := range e.Oracles() {
		assert.Equal(t, oracle.StatusPending, rec.Status)
		remaining, overdue := rec.TimeUntilNextPublish(clock.Now())
		assert.True(t, overdue)
		assert.Equal(t, time.Duration(0), remaining)
	}

	// The next pass publishes again and the records recover.
	require.NoError(t, e.Refresh(context.Background()))
	for _, rec := range e.Oracles() {
		assert.Equal(t, oracle.StatusActive, rec.Status)
	}
}

func TestPricesByName(t *testing.T) {
	e, _ := newTestEngine(t, 9)

	prices := e.PricesByName()
	gold, err := e.Commodity("gold")
	require.NoError(t, err)
	assert.Equal(t, gold.Price, prices["gold"])
	assert.Contains(t, prices, "crude oil")
}
