package selectionservice

import (
	"fmt"

	"polysentinel/internal/domain/selection"
)

// minResolvedPerWindow is the smallest resolved sample a window needs before its
// win rate is compared
const minResolvedPerWindow = 3

// detectShifts compares the earlier and later halves of a chronologically sorted
// history. The split is by trade count, not by time, so sparse-then-heavy trading
// can produce shifts that a time-based split would not.
func (a *Analyzer) detectShifts(sorted []selection.Trade) []selection.Shift {
	shifts := []selection.Shift{}
	if len(sorted) < 2*a.cfg.MinTrades {
		return shifts
	}

	half := len(sorted) / 2
	before, after := sorted[:half], sorted[half:]

	if shift, ok := categoryShift(before, after); ok {
		shifts = append(shifts, shift)
	}
	if shift, ok := a.winBiasShift(before, after); ok {
		shifts = append(shifts, shift)
	}
	if shift, ok := a.concentrationShift(before, after); ok {
		shifts = append(shifts, shift)
	}
	return shifts
}

func categoryShift(before, after []selection.Trade) (selection.Shift, bool) {
	catBefore, shareBefore := dominantCategory(before)
	catAfter, shareAfter := dominantCategory(after)
	if catBefore == catAfter {
		return selection.Shift{}, false
	}

	return selection.Shift{
		Type:        selection.ShiftCategoryChange,
		Description: fmt.Sprintf("Dominant category moved from %s to %s", catBefore, catAfter),
		Before:      catBefore.String(),
		After:       catAfter.String(),
		BeforeValue: round2(shareBefore),
		AfterValue:  round2(shareAfter),
		Magnitude:   round2(shareAfter - categoryShare(before, catAfter)),
	}, true
}

func (a *Analyzer) winBiasShift(before, after []selection.Trade) (selection.Shift, bool) {
	rateBefore, resolvedBefore := winRate(before)
	rateAfter, resolvedAfter := winRate(after)
	if resolvedBefore < minResolvedPerWindow || resolvedAfter < minResolvedPerWindow {
		return selection.Shift{}, false
	}

	delta := rateAfter - rateBefore
	if delta <= a.cfg.WinBiasDelta {
		return selection.Shift{}, false
	}

	return selection.Shift{
		Type:        selection.ShiftWinBiasIncrease,
		Description: fmt.Sprintf("Win rate rose from %.0f%% to %.0f%%", rateBefore*100, rateAfter*100),
		Before:      fmt.Sprintf("%.0f%%", rateBefore*100),
		After:       fmt.Sprintf("%.0f%%", rateAfter*100),
		BeforeValue: round2(rateBefore),
		AfterValue:  round2(rateAfter),
		Magnitude:   round2(delta),
	}, true
}

func (a *Analyzer) concentrationShift(before, after []selection.Trade) (selection.Shift, bool) {
	_, hhiBefore := marketConcentration(before)
	_, hhiAfter := marketConcentration(after)

	delta := hhiAfter - hhiBefore
	if delta <= a.cfg.ConcentrationDelta {
		return selection.Shift{}, false
	}

	return selection.Shift{
		Type:        selection.ShiftConcentrationIncrease,
		Description: fmt.Sprintf("Market concentration rose from %.2f to %.2f", hhiBefore, hhiAfter),
		Before:      fmt.Sprintf("%.2f", hhiBefore),
		After:       fmt.Sprintf("%.2f", hhiAfter),
		BeforeValue: round2(hhiBefore),
		AfterValue:  round2(hhiAfter),
		Magnitude:   round2(delta),
	}, true
}
