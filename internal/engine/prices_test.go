package engine

import (
	"math"
	"math/rand"
	"testing"
	"time"

	commodity "main/internal/domain/entity/commodity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

func TestEvolve_BoundedWalk(t *testing.T) {
	rng := testRand(1)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c := commodity.Commodity{ID: "gold", Name: "Gold", Price: 2381.90, Category: commodity.CategoryMetals}

	for i := 0; i < 500; i++ {
		prev := c.Price
		c = evolve(c, rng, now)

		assert.Greater(t, c.Price, 0.0)
		assert.LessOrEqual(t, math.Abs(c.ChangePercent), maxTickPercent)
		assert.InDelta(t, c.Price-prev, c.Change, 1e-9)
		assert.Equal(t, now, c.LastUpdate)
	}
}

func TestEvolve_RoundsToCents(t *testing.T) {
	rng := testRand(7)
	c := commodity.Commodity{ID: "copper", Price: 4.58}

	c = evolve(c, rng, time.Now())

	assert.InDelta(t, c.Price, round2(c.Price), 1e-12)
}

func TestEvolve_ClampsAtFloor(t *testing.T) {
	rng := testRand(3)
	c := commodity.Commodity{ID: "dust", Price: 0.01}

	for i := 0; i < 200; i++ {
		c = evolve(c, rng, time.Now())
		require.Greater(t, c.Price, 0.0)
	}
}

func TestSeedCommodity(t *testing.T) {
	rng := testRand(9)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entry := commodity.CatalogEntry{ID: "gold", Name: "Gold", Price: 2381.90, Unit: "USD/t oz.", Category: commodity.CategoryMetals}

	c := seedCommodity(entry, rng, now)

	assert.Equal(t, entry.Price, c.Price)
	assert.Equal(t, entry.Unit, c.Unit)
	assert.LessOrEqual(t, math.Abs(c.ChangePercent), maxSeedPercent)
	assert.Equal(t, now, c.LastUpdate)
}

func TestDrawPercent_StaysInRange(t *testing.T) {
	rng := testRand(11)
	for i := 0; i < 2000; i++ {
		pct := drawPercent(rng, maxTickPercent)
		assert.GreaterOrEqual(t, pct, -maxTickPercent)
		assert.Less(t, pct, maxTickPercent)
	}
}
