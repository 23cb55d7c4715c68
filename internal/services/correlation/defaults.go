package correlationservice

import (
	"polysentinel/internal/domain/composite"
	"polysentinel/internal/domain/correlation"
)

// DefaultSignalPairs returns the built-in correlation rules
func DefaultSignalPairs() []correlation.SignalPair {
	return []correlation.SignalPair{
		{
			Signal1:           composite.SourceWinRate,
			Signal2:           composite.SourceProfitLoss,
			Pattern:           correlation.PatternPerformanceOutliers,
			Weight:            5,
			MinScoreThreshold: 60,
			Description:       "High win rate backed by outsized profits",
		},
		{
			Signal1:           composite.SourceWinRate,
			Signal2:           composite.SourceAccuracy,
			Pattern:           correlation.PatternPerformanceOutliers,
			Weight:            4,
			MinScoreThreshold: 60,
			Description:       "High win rate with abnormal prediction accuracy",
		},
		{
			Signal1:           composite.SourceTimingPattern,
			Signal2:           composite.SourceAccuracy,
			Pattern:           correlation.PatternInsider,
			Weight:            8,
			MinScoreThreshold: 50,
			Description:       "Well-timed entries that are also unusually accurate",
		},
		{
			Signal1:           composite.SourceFreshWallet,
			Signal2:           composite.SourcePositionSizing,
			Pattern:           correlation.PatternFreshWalletActivity,
			Weight:            6,
			MinScoreThreshold: 50,
			Description:       "New wallet opening unusually large positions",
		},
		{
			Signal1:           composite.SourceFreshWallet,
			Signal2:           composite.SourceWinRate,
			Pattern:           correlation.PatternFreshWalletActivity,
			Weight:            5,
			MinScoreThreshold: 55,
			Description:       "New wallet winning far above expectation",
		},
		{
			Signal1:           composite.SourceSybil,
			Signal2:           composite.SourceCoordination,
			Pattern:           correlation.PatternSybilCoordination,
			Weight:            10,
			MinScoreThreshold: 40,
			Description:       "Sybil cluster membership with coordinated trading",
		},
		{
			Signal1:           composite.SourceCoordination,
			Signal2:           composite.SourceTimingPattern,
			Pattern:           correlation.PatternNetworkCoordination,
			Weight:            6,
			MinScoreThreshold: 50,
			Description:       "Coordinated wallets entering at the same moments",
		},
		{
			Signal1:           composite.SourcePositionSizing,
			Signal2:           composite.SourceTradingPattern,
			Pattern:           correlation.PatternBehavioralConsistency,
			Weight:            3,
			MinScoreThreshold: 50,
			Description:       "Uniform sizing and repetitive trading behavior",
		},
		{
			Signal1:           composite.SourceMarketSelection,
			Signal2:           composite.SourceTimingPattern,
			Pattern:           correlation.PatternInsider,
			Weight:            7,
			MinScoreThreshold: 50,
			Description:       "Selective market picks entered just before resolution",
		},
		{
			Signal1:           composite.SourceMarketSelection,
			Signal2:           composite.SourceAccuracy,
			Pattern:           correlation.PatternMarketTargeting,
			Weight:            5,
			MinScoreThreshold: 55,
			Description:       "Concentrated market selection with high accuracy",
		},
		{
			Signal1:           composite.SourceSybil,
			Signal2:           composite.SourceFreshWallet,
			Pattern:           correlation.PatternNetworkCoordination,
			Weight:            5,
			MinScoreThreshold: 45,
			Description:       "Freshly funded wallets inside a sybil cluster",
		},
	}
}
