package correlation

import (
	"time"

	"github.com/google/uuid"
)

// EffectivenessRecord is a reviewed outcome of a boost applied to a wallet
type EffectivenessRecord struct {
	ID            uuid.UUID `json:"id"`
	WalletAddress string    `json:"walletAddress"`
	Pattern       Pattern   `json:"pattern"`
	ScoreBefore   float64   `json:"scoreBefore"`
	ScoreAfter    float64   `json:"scoreAfter"`
	WasCorrect    bool      `json:"wasCorrect"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// PatternEffectiveness is the per-pattern breakdown of reviewed boosts
type PatternEffectiveness struct {
	Correct      int     `json:"correct"`
	Incorrect    int     `json:"incorrect"`
	Rate         float64 `json:"rate"`
	AverageDelta float64 `json:"averageDelta"`
}

// EffectivenessStats aggregates every recorded outcome
type EffectivenessStats struct {
	TrackedCount      int                              `json:"trackedCount"`
	CorrectCount      int                              `json:"correctCount"`
	IncorrectCount    int                              `json:"incorrectCount"`
	EffectivenessRate float64                          `json:"effectivenessRate"` // 0 when nothing tracked
	ByPattern         map[Pattern]PatternEffectiveness `json:"byPattern"`
}
