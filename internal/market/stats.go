package market

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RetentionWindow is the trailing duration beyond which samples are pruned.
const RetentionWindow = 7 * 24 * time.Hour

// ApplySample produces the next asset state from the old state plus one new
// sample. It is a pure function: the old asset and its series are never
// mutated, so a committed state can be shared with concurrent readers.
//
// The series is appended to, pruned to the retention window and re-sorted on
// every call; the feed gives no ordering guarantee across reconnects. Change
// percentages stay at 0 until a prior price exists.
func ApplySample(old Asset, s Sample, now time.Time) Asset {
	next := old
	oldPrice := old.Price

	next.Price = s.Price
	next.MarketCap = old.CirculatingSupply * s.Price

	cutoff := now.Add(-RetentionWindow).UnixMilli()
	series := make([]Sample, 0, len(old.Series)+1)
	for _, p := range old.Series {
		if p.Timestamp >= cutoff {
			series = append(series, p)
		}
	}
	if s.Timestamp >= cutoff {
		series = append(series, s)
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp < series[j].Timestamp
	})
	next.Series = series

	if oldPrice > 0 {
		next.Change1h = percentChange(s.Price, basePrice(series, now.Add(-time.Hour).UnixMilli(), oldPrice))
		next.Change24h = percentChange(s.Price, basePrice(series, now.Add(-24*time.Hour).UnixMilli(), oldPrice))
		next.Change7d = percentChange(s.Price, basePrice(series, cutoff, oldPrice))
	} else {
		// First-ever tick: no prior price, no defined change.
		next.Change1h, next.Change24h, next.Change7d = 0, 0, 0
	}

	next.LastUpdate = now.UnixMilli()
	return next
}

// basePrice returns the earliest retained sample at or before windowStart.
// When the series does not reach that far back, fallback (the previous price)
// is a best-effort approximation.
func basePrice(series []Sample, windowStart int64, fallback float64) float64 {
	for _, p := range series {
		if p.Timestamp <= windowStart {
			return p.Price
		}
	}
	return fallback
}

// percentChange returns the change from base to current as a percentage
// rounded to two decimals. A zero base or a non-finite result clamps to 0.
func percentChange(current, base float64) float64 {
	if base == 0 {
		return 0
	}
	change := (current - base) / base * 100
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return 0
	}
	return decimal.NewFromFloat(change).Round(2).InexactFloat64()
}
