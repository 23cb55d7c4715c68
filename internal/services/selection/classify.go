package selectionservice

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"polysentinel/internal/domain/selection"
)

// Suspicion score weights
const (
	insiderLikeWeight = 40.0
	lowDataQualityCap = 25.0
)

var flagSeverity = map[string]float64{
	selection.FlagHighWinRate:                    15,
	selection.FlagNearResolutionPreference:       15,
	selection.FlagHighValueCategoryConcentration: 10,
	selection.FlagExtremeConcentration:           5,
	selection.FlagLowVolumeMarketFocus:           5,
	selection.FlagLargePositions:                 5,
}

var shiftSeverity = map[selection.ShiftType]float64{
	selection.ShiftWinBiasIncrease:       10,
	selection.ShiftConcentrationIncrease: 5,
	selection.ShiftCategoryChange:        3,
}

// compute is a pure function of the trades; now only feeds display fields
func (a *Analyzer) compute(wallet string, trades []selection.Trade, now time.Time) *selection.AnalysisResult {
	sorted := sortChronologically(trades)
	n := len(sorted)

	result := &selection.AnalysisResult{
		WalletAddress:       wallet,
		PrimaryPattern:      selection.PatternUnknown,
		Preferences:         []selection.PreferenceType{},
		CategoryPreferences: []selection.CategoryPreference{},
		Shifts:              []selection.Shift{},
		RiskFlags:           []string{},
		TotalTrades:         n,
		AnalyzedAt:          now,
	}
	if n == 0 {
		return result
	}

	enough := n >= a.cfg.MinTrades

	result.Diversity = computeDiversity(sorted)
	result.CategoryPreferences = categoryPreferences(sorted)
	result.AvgPositionUSD = averagePosition(sorted)

	rate, resolved := winRate(sorted)
	if resolved > 0 {
		wr := round2(rate*10000) / 10000
		result.WinRate = &wr
	}
	nearShare, nearSample := nearResolutionShare(sorted, a.cfg.NearResolutionWindow)
	result.NearResolution = round2(nearShare*10000) / 10000

	topShare := result.CategoryPreferences[0].Share
	topCategory := result.CategoryPreferences[0].Category
	specialist := enough && topShare > a.cfg.SpecialistShare

	if enough {
		result.Preferences = a.preferences(sorted, specialist)
	}
	result.Shifts = a.detectShifts(sorted)

	highWinRate := resolved >= a.cfg.MinTrades && rate >= a.cfg.HighWinRate
	nearResolution := nearSample >= a.cfg.MinTrades && nearShare >= a.cfg.NearResolutionShare

	flag := func(cond bool, name string) {
		if cond {
			result.RiskFlags = append(result.RiskFlags, name)
		}
	}
	flag(highWinRate, selection.FlagHighWinRate)
	flag(nearResolution, selection.FlagNearResolutionPreference)
	flag(specialist && topCategory.IsHighInformationValue(), selection.FlagHighValueCategoryConcentration)
	flag(enough && result.Diversity.MarketConcentration >= a.cfg.ExtremeConcentration, selection.FlagExtremeConcentration)
	flag(enough && result.HasPreference(selection.PreferenceLowVolume), selection.FlagLowVolumeMarketFocus)
	flag(enough && result.AvgPositionUSD.GreaterThanOrEqual(a.cfg.LargePositionUSD), selection.FlagLargePositions)
	flag(result.HasShift(selection.ShiftWinBiasIncrease), selection.FlagWinBiasShift)

	switch {
	case !enough:
		result.PrimaryPattern = selection.PatternUnknown
	case highWinRate && nearResolution:
		result.PrimaryPattern = selection.PatternInsiderLike
	case specialist || result.Diversity.MarketConcentration >= a.cfg.FocusedConcentration:
		result.PrimaryPattern = selection.PatternFocused
	default:
		result.PrimaryPattern = selection.PatternDiversified
	}

	result.SuspicionScore = suspicionScore(result)
	result.IsPotentiallySuspicious = result.SuspicionScore >= a.cfg.SuspiciousThreshold
	result.DataQuality = a.dataQuality(sorted)

	first, last := sorted[0].Timestamp, sorted[n-1].Timestamp
	result.FirstTradeAt = &first
	result.LastTradeAt = &last
	result.LastTradeAgo = humanize.RelTime(last, now, "ago", "from now")

	return result
}

func (a *Analyzer) preferences(sorted []selection.Trade, specialist bool) []selection.PreferenceType {
	prefs := []selection.PreferenceType{}
	if specialist {
		prefs = append(prefs, selection.PreferenceCategorySpecialist)
	}
	if share, ok := newsShare(sorted); ok && share >= a.cfg.EventDrivenShare {
		prefs = append(prefs, selection.PreferenceEventDriven)
	}
	if avg, ok := averageMarketVolume(sorted); ok {
		switch {
		case avg.GreaterThanOrEqual(a.cfg.HighVolumeUSD):
			prefs = append(prefs, selection.PreferenceHighVolume)
		case avg.LessThanOrEqual(a.cfg.LowVolumeUSD):
			prefs = append(prefs, selection.PreferenceLowVolume)
		}
	}
	return prefs
}

// suspicionScore combines the insider-like classification, flag severities and
// suspicion-increasing shifts, clamped to 0..100
func suspicionScore(r *selection.AnalysisResult) float64 {
	score := 0.0
	if r.PrimaryPattern == selection.PatternInsiderLike {
		score += insiderLikeWeight
	}
	for _, f := range r.RiskFlags {
		score += flagSeverity[f]
	}
	for _, s := range r.Shifts {
		score += shiftSeverity[s.Type]
	}
	return round2(clamp(score, 0, 100))
}

// dataQuality rewards sample size (up to 60) and optional metadata coverage (up to 40)
func (a *Analyzer) dataQuality(sorted []selection.Trade) float64 {
	n := len(sorted)
	full := float64(a.cfg.MinTrades * 4)
	sample := math.Min(1, float64(n)/full) * 60
	quality := sample + metadataCompleteness(sorted)*40

	if n < a.cfg.MinTrades {
		quality = math.Min(quality, lowDataQualityCap)
	}
	return round2(clamp(quality, 0, 100))
}
