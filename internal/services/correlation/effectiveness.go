package correlationservice

import (
	"github.com/google/uuid"

	"polysentinel/internal/domain/correlation"
	"polysentinel/internal/metrics"
	"polysentinel/pkg/errors"
)

// RecordBoostEffectiveness stores a reviewed boost outcome. Records never feed
// back into scoring. The oldest records are dropped beyond MaxEffectivenessRecords.
func (s *Scorer) RecordBoostEffectiveness(walletAddress string, pattern correlation.Pattern, scoreBefore, scoreAfter float64, wasCorrect bool) (correlation.EffectivenessRecord, error) {
	wallet := normalizeWallet(walletAddress)
	if wallet == "" {
		return correlation.EffectivenessRecord{}, errors.NewValidationError("wallet_address", "must not be empty", walletAddress)
	}
	if !pattern.Valid() {
		return correlation.EffectivenessRecord{}, errors.NewValidationError("pattern", "is not a known correlation pattern", pattern)
	}
	if !validScore(scoreBefore) || !validScore(scoreAfter) {
		return correlation.EffectivenessRecord{}, errors.NewValidationError("score", "must be within 0..100", []float64{scoreBefore, scoreAfter})
	}

	rec := correlation.EffectivenessRecord{
		ID:            uuid.New(),
		WalletAddress: wallet,
		Pattern:       pattern,
		ScoreBefore:   scoreBefore,
		ScoreAfter:    scoreAfter,
		WasCorrect:    wasCorrect,
		RecordedAt:    s.clock(),
	}

	s.effMu.Lock()
	s.records = append(s.records, rec)
	if over := len(s.records) - s.cfg.MaxEffectivenessRecords; over > 0 {
		s.records = append([]correlation.EffectivenessRecord(nil), s.records[over:]...)
	}
	s.effMu.Unlock()

	metrics.RecordEffectiveness(pattern.String(), wasCorrect)
	s.log.Debugw("Boost effectiveness recorded",
		"wallet", wallet,
		"pattern", pattern,
		"correct", wasCorrect,
	)
	return rec, nil
}

// GetEffectivenessStats aggregates every stored record.
// EffectivenessRate is 0 when nothing has been tracked.
func (s *Scorer) GetEffectivenessStats() correlation.EffectivenessStats {
	s.effMu.RLock()
	defer s.effMu.RUnlock()

	stats := correlation.EffectivenessStats{
		TrackedCount: len(s.records),
		ByPattern:    make(map[correlation.Pattern]correlation.PatternEffectiveness),
	}

	deltas := make(map[correlation.Pattern]float64)
	for _, r := range s.records {
		p := stats.ByPattern[r.Pattern]
		if r.WasCorrect {
			stats.CorrectCount++
			p.Correct++
		} else {
			stats.IncorrectCount++
			p.Incorrect++
		}
		deltas[r.Pattern] += r.ScoreAfter - r.ScoreBefore
		stats.ByPattern[r.Pattern] = p
	}

	if stats.TrackedCount > 0 {
		stats.EffectivenessRate = float64(stats.CorrectCount) / float64(stats.TrackedCount)
	}
	for pattern, p := range stats.ByPattern {
		total := p.Correct + p.Incorrect
		p.Rate = float64(p.Correct) / float64(total)
		p.AverageDelta = deltas[pattern] / float64(total)
		stats.ByPattern[pattern] = p
	}
	return stats
}

// EffectivenessRate is the overall share of correct boosts
func (s *Scorer) EffectivenessRate() float64 {
	return s.GetEffectivenessStats().EffectivenessRate
}

// EffectivenessRecords returns a copy of stored records, oldest first
func (s *Scorer) EffectivenessRecords() []correlation.EffectivenessRecord {
	s.effMu.RLock()
	defer s.effMu.RUnlock()
	return append([]correlation.EffectivenessRecord(nil), s.records...)
}
