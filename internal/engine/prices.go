package engine

import (
	"math"
	"time"

	commodity "main/internal/domain/entity/commodity"
)

const (
	// maxTickPercent bounds the per-tick random walk.
	maxTickPercent = 2.0
	// maxSeedPercent bounds the wider draw used when seeding the catalog.
	maxSeedPercent = 3.0
	// priceFloor keeps a clamped walk strictly positive.
	priceFloor = 0.01
)

// drawPercent draws a uniform percent change in [-limit, +limit].
func drawPercent(rng Source, limit float64) float64 {
	return rng.Float64()*2*limit - limit
}

// evolve advances one commodity a single random-walk step. The draw is
// clamped so the price never crosses zero.
func evolve(c commodity.Commodity, rng Source, now time.Time) commodity.Commodity {
	pct := drawPercent(rng, maxTickPercent)
	delta := c.Price * pct / 100
	newPrice := round2(c.Price + delta)
	if newPrice <= 0 {
		newPrice = priceFloor
		delta = newPrice - c.Price
		pct = 0
		if c.Price != 0 {
			pct = delta / c.Price * 100
		}
	}

	c.Change = round2(newPrice - c.Price)
	c.ChangePercent = round2(pct)
	c.Price = newPrice
	c.LastUpdate = now
	return c
}

// seedCommodity builds the initial live state for a catalog entry, applying
// one wider draw so the dashboard starts with non-zero day changes.
func seedCommodity(entry commodity.CatalogEntry, rng Source, now time.Time) commodity.Commodity {
	pct := drawPercent(rng, maxSeedPercent)
	change := round2(entry.Price * pct / 100)
	return commodity.Commodity{
		ID:            entry.ID,
		Name:          entry.Name,
		Category:      entry.Category,
		Unit:          entry.Unit,
		Price:         entry.Price,
		Change:        change,
		ChangePercent: round2(pct),
		LastUpdate:    now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
