package engine

import (
	"time"
)

// HistoryCapacity bounds the rolling price window per commodity.
const HistoryCapacity = 24

// Sample is one observed (timestamp, price) point.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// History is a fixed-capacity rolling window of price samples, oldest first.
type History struct {
	samples []Sample
}

// Append adds one sample, evicting the oldest once the window is full.
func (h *History) Append(ts time.Time, price float64) {
	h.samples = append(h.samples, Sample{Timestamp: ts, Price: price})
	if len(h.samples) > HistoryCapacity {
		h.samples = h.samples[len(h.samples)-HistoryCapacity:]
	}
}

// Samples returns a copy of the window, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

func (h *History) Len() int {
	return len(h.samples)
}

// seedHistory fills a cold-start window with synthetic hourly samples walking
// backward from the initial price with a ±2% per-step perturbation.
func seedHistory(price float64, rng Source, now time.Time) *History {
	h := &History{}
	current := price
	for i := 0; i < HistoryCapacity; i++ {
		hoursAgo := HistoryCapacity - i
		pct := drawPercent(rng, maxTickPercent)
		current = round2(current + current*pct/100)
		if current <= 0 {
			current = priceFloor
		}
		h.Append(now.Add(-time.Duration(hoursAgo)*time.Hour), current)
	}
	return h
}
