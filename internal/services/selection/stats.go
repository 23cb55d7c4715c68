package selectionservice

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"polysentinel/internal/domain/selection"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func sortChronologically(trades []selection.Trade) []selection.Trade {
	sorted := make([]selection.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].TradeID < sorted[j].TradeID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// marketConcentration returns the distinct market count and the Herfindahl-Hirschman
// index over per-market trade-count shares
func marketConcentration(trades []selection.Trade) (int, float64) {
	if len(trades) == 0 {
		return 0, 0
	}

	counts := make(map[string]int)
	for _, t := range trades {
		counts[t.MarketID]++
	}

	total := float64(len(trades))
	hhi := 0.0
	for _, c := range counts {
		share := float64(c) / total
		hhi += share * share
	}
	return len(counts), hhi
}

// diversityScore maps concentration onto 0..100, strictly decreasing
func diversityScore(hhi float64) float64 {
	return round2(clamp((1-hhi)*100, 0, 100))
}

func computeDiversity(trades []selection.Trade) selection.Diversity {
	unique, hhi := marketConcentration(trades)
	return selection.Diversity{
		UniqueMarkets:       unique,
		DiversityScore:      diversityScore(hhi),
		MarketConcentration: round2(hhi*10000) / 10000,
	}
}

// winRate returns the share of resolved trades that won and how many were resolved
func winRate(trades []selection.Trade) (float64, int) {
	wins, resolved := 0, 0
	for _, t := range trades {
		if t.IsWinner == nil {
			continue
		}
		resolved++
		if *t.IsWinner {
			wins++
		}
	}
	if resolved == 0 {
		return 0, 0
	}
	return float64(wins) / float64(resolved), resolved
}

// nearResolutionShare returns the share of trades placed within window before their
// market's resolution, over trades that carry a resolution time
func nearResolutionShare(trades []selection.Trade, window time.Duration) (float64, int) {
	near, sample := 0, 0
	for _, t := range trades {
		if t.MarketResolvesAt == nil {
			continue
		}
		sample++
		lead := t.MarketResolvesAt.Sub(t.Timestamp)
		if lead >= 0 && lead <= window {
			near++
		}
	}
	if sample == 0 {
		return 0, 0
	}
	return float64(near) / float64(sample), sample
}

type categoryAgg struct {
	count    int
	volume   decimal.Decimal
	wins     int
	resolved int
}

// categoryPreferences groups trades by category, ordered by share descending
func categoryPreferences(trades []selection.Trade) []selection.CategoryPreference {
	aggs := make(map[selection.MarketCategory]*categoryAgg)
	for _, t := range trades {
		agg, ok := aggs[t.MarketCategory]
		if !ok {
			agg = &categoryAgg{volume: decimal.Zero}
			aggs[t.MarketCategory] = agg
		}
		agg.count++
		agg.volume = agg.volume.Add(t.SizeUSD)
		if t.IsWinner != nil {
			agg.resolved++
			if *t.IsWinner {
				agg.wins++
			}
		}
	}

	total := float64(len(trades))
	prefs := make([]selection.CategoryPreference, 0, len(aggs))
	for cat, agg := range aggs {
		pref := selection.CategoryPreference{
			Category:   cat,
			TradeCount: agg.count,
			Share:      round2(float64(agg.count)/total*10000) / 10000,
			VolumeUSD:  agg.volume,
		}
		if agg.resolved > 0 {
			wr := round2(float64(agg.wins) / float64(agg.resolved) * 10000) / 10000
			pref.WinRate = &wr
		}
		prefs = append(prefs, pref)
	}

	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].TradeCount != prefs[j].TradeCount {
			return prefs[i].TradeCount > prefs[j].TradeCount
		}
		return prefs[i].Category < prefs[j].Category
	})
	return prefs
}

// dominantCategory returns the most traded category and its share
func dominantCategory(trades []selection.Trade) (selection.MarketCategory, float64) {
	prefs := categoryPreferences(trades)
	if len(prefs) == 0 {
		return "", 0
	}
	return prefs[0].Category, float64(prefs[0].TradeCount) / float64(len(trades))
}

func categoryShare(trades []selection.Trade, cat selection.MarketCategory) float64 {
	if len(trades) == 0 {
		return 0
	}
	n := 0
	for _, t := range trades {
		if t.MarketCategory == cat {
			n++
		}
	}
	return float64(n) / float64(len(trades))
}

// averageMarketVolume averages known market volumes; ok is false when fewer than
// half of the trades carry a volume
func averageMarketVolume(trades []selection.Trade) (decimal.Decimal, bool) {
	sum := decimal.Zero
	known := 0
	for _, t := range trades {
		if t.MarketVolume == nil {
			continue
		}
		sum = sum.Add(*t.MarketVolume)
		known++
	}
	if known == 0 || known*2 < len(trades) {
		return decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(int64(known))), true
}

// newsShare returns the share of news-adjacent trades; ok is false when fewer than
// half of the trades carry the news flag
func newsShare(trades []selection.Trade) (float64, bool) {
	withNews, known := 0, 0
	for _, t := range trades {
		if t.HasRecentNews == nil {
			continue
		}
		known++
		if *t.HasRecentNews {
			withNews++
		}
	}
	if known == 0 || known*2 < len(trades) {
		return 0, false
	}
	return float64(withNews) / float64(known), true
}

func averagePosition(trades []selection.Trade) decimal.Decimal {
	if len(trades) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, t := range trades {
		sum = sum.Add(t.SizeUSD)
	}
	return sum.Div(decimal.NewFromInt(int64(len(trades)))).Round(2)
}

// metadataCompleteness is the mean share of optional fields present per trade
func metadataCompleteness(trades []selection.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	present := 0
	for _, t := range trades {
		if t.IsWinner != nil {
			present++
		}
		if t.MarketVolume != nil {
			present++
		}
		if t.MarketResolvesAt != nil {
			present++
		}
		if t.HasRecentNews != nil {
			present++
		}
	}
	return float64(present) / float64(len(trades)*4)
}
