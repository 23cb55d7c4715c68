package selectionservice

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"polysentinel/internal/domain/selection"
	"polysentinel/internal/metrics"
	"polysentinel/pkg/errors"
)

const topRiskFlagLimit = 5

// BatchAnalyze analyzes each wallet independently. A failing wallet gets an error
// slot; it never aborts or alters sibling results. Results keep input order.
func (a *Analyzer) BatchAnalyze(ctx context.Context, walletAddresses []string) *selection.BatchResult {
	started := time.Now()
	entries := make([]selection.BatchEntry, len(walletAddresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.BatchConcurrency)

	for i, wallet := range walletAddresses {
		i, wallet := i, wallet
		g.Go(func() error {
			entry := selection.BatchEntry{WalletAddress: wallet}
			result, err := a.safeAnalyze(gctx, wallet)
			if err != nil {
				entry.Err = err
				entry.Error = err.Error()
				a.log.Warnw("Batch wallet analysis failed", "wallet", wallet, "error", err)
			} else {
				entry.Result = result
			}
			metrics.RecordBatchItem("selection", err)
			entries[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	batch := &selection.BatchResult{
		BatchID:     uuid.New().String(),
		Results:     entries,
		Summary:     summarize(entries),
		CompletedAt: time.Now(),
	}

	a.log.Infow("Market selection batch completed",
		"batch_id", batch.BatchID,
		"wallets", len(entries),
		"errors", batch.Summary.ErrorCount,
		"suspicious", batch.Summary.SuspiciousCount,
		"duration", time.Since(started),
	)
	return batch
}

func (a *Analyzer) safeAnalyze(ctx context.Context, wallet string) (result *selection.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Wrapf(errors.ErrInternal, "analyze wallet %s panicked: %v", wallet, r)
			a.log.ErrorWithContext(errors.ContextWithWallet(ctx, wallet), err, map[string]string{"operation": "selection_batch"})
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "batch cancelled")
	}
	return a.Analyze(wallet, AnalyzeOptions{})
}

func summarize(entries []selection.BatchEntry) selection.BatchSummary {
	summary := selection.BatchSummary{
		TotalProcessed:      len(entries),
		PatternDistribution: make(map[selection.Pattern]int),
		TopRiskFlags:        []selection.FlagCount{},
	}

	flagCounts := make(map[string]int)
	totalSuspicion := 0.0

	for _, e := range entries {
		if e.Result == nil {
			summary.ErrorCount++
			continue
		}
		summary.SuccessCount++
		summary.PatternDistribution[e.Result.PrimaryPattern]++
		totalSuspicion += e.Result.SuspicionScore
		if e.Result.IsPotentiallySuspicious {
			summary.SuspiciousCount++
		}
		for _, f := range e.Result.RiskFlags {
			flagCounts[f]++
		}
	}

	if summary.SuccessCount > 0 {
		summary.AverageSuspicion = round2(totalSuspicion / float64(summary.SuccessCount))
	}

	for flag, count := range flagCounts {
		summary.TopRiskFlags = append(summary.TopRiskFlags, selection.FlagCount{Flag: flag, Count: count})
	}
	sort.Slice(summary.TopRiskFlags, func(i, j int) bool {
		if summary.TopRiskFlags[i].Count != summary.TopRiskFlags[j].Count {
			return summary.TopRiskFlags[i].Count > summary.TopRiskFlags[j].Count
		}
		return summary.TopRiskFlags[i].Flag < summary.TopRiskFlags[j].Flag
	})
	if len(summary.TopRiskFlags) > topRiskFlagLimit {
		summary.TopRiskFlags = summary.TopRiskFlags[:topRiskFlagLimit]
	}

	return summary
}
