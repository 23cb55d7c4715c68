package main

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"polysentinel/internal/domain/composite"
	"polysentinel/internal/domain/correlation"
	"polysentinel/internal/domain/selection"
	correlationservice "polysentinel/internal/services/correlation"
	selectionservice "polysentinel/internal/services/selection"
	"polysentinel/pkg/errors"
	"polysentinel/pkg/logger"
)

// fixture is a recorded input set for offline analysis
type fixture struct {
	Trades           map[string][]selection.Trade `json:"trades"`
	CompositeResults []*composite.ScoreResult     `json:"compositeResults"`
}

// report is written to stdout after a replay
type report struct {
	Rejected    map[string]string        `json:"rejected,omitempty"`
	Selection   *selection.BatchResult   `json:"selection"`
	Correlation *correlation.BatchResult `json:"correlation"`
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read fixture %s", path)
	}

	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "decode fixture %s: %v", path, err)
	}
	return &f, nil
}

// replay ingests every wallet's trades then runs both batch analyses.
// A wallet whose trades are rejected is reported and still analyzed with whatever it already had.
func replay(
	ctx context.Context,
	analyzer *selectionservice.Analyzer,
	scorer *correlationservice.Scorer,
	f *fixture,
	log *logger.Logger,
) *report {
	rep := &report{Rejected: make(map[string]string)}

	wallets := make([]string, 0, len(f.Trades))
	for wallet := range f.Trades {
		wallets = append(wallets, wallet)
	}
	sort.Strings(wallets)

	for _, wallet := range wallets {
		if err := analyzer.AddTrades(wallet, f.Trades[wallet]); err != nil {
			log.Warnw("Trades rejected", "wallet", wallet, "error", err)
			rep.Rejected[wallet] = err.Error()
		}
	}

	rep.Selection = analyzer.BatchAnalyze(ctx, wallets)
	rep.Correlation = scorer.BatchAnalyzeCorrelations(ctx, f.CompositeResults)

	log.Infow("✓ Replay complete",
		"wallets", len(wallets),
		"rejected", len(rep.Rejected),
		"suspicious", rep.Selection.Summary.SuspiciousCount,
		"boosted", rep.Correlation.Summary.WalletsBoosted,
	)
	return rep
}
