package correlationservice

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"polysentinel/internal/domain/composite"
	"polysentinel/internal/domain/correlation"
	"polysentinel/internal/metrics"
	"polysentinel/pkg/errors"
)

// BatchAnalyzeCorrelations analyzes each composite result independently. A failing
// item gets an error slot; results keep input order.
func (s *Scorer) BatchAnalyzeCorrelations(ctx context.Context, results []*composite.ScoreResult) *correlation.BatchResult {
	started := time.Now()
	entries := make([]correlation.BatchEntry, len(results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for i, res := range results {
		i, res := i, res
		g.Go(func() error {
			entry := correlation.BatchEntry{}
			if res != nil {
				entry.WalletAddress = res.WalletAddress
			}
			out, err := s.safeAnalyze(gctx, res)
			if err != nil {
				entry.Err = err
				entry.Error = err.Error()
				s.log.Warnw("Batch correlation analysis failed", "wallet", entry.WalletAddress, "error", err)
			} else {
				entry.Result = out
			}
			metrics.RecordBatchItem("correlation", err)
			entries[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	batch := &correlation.BatchResult{
		BatchID:     uuid.New().String(),
		Results:     entries,
		Summary:     summarize(entries),
		CompletedAt: time.Now(),
	}

	s.log.Infow("Correlation batch completed",
		"batch_id", batch.BatchID,
		"wallets", len(entries),
		"errors", batch.Summary.ErrorCount,
		"boosted", batch.Summary.WalletsBoosted,
		"duration", time.Since(started),
	)
	return batch
}

func (s *Scorer) safeAnalyze(ctx context.Context, res *composite.ScoreResult) (out *correlation.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.Wrapf(errors.ErrInternal, "correlation analysis panicked: %v", r)
			if res != nil {
				ctx = errors.ContextWithWallet(ctx, res.WalletAddress)
			}
			s.log.ErrorWithContext(ctx, err, map[string]string{"operation": "correlation_batch"})
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "batch cancelled")
	}
	return s.AnalyzeCorrelations(res, AnalyzeOptions{})
}

func summarize(entries []correlation.BatchEntry) correlation.BatchSummary {
	summary := correlation.BatchSummary{
		TotalProcessed: len(entries),
		CommonPatterns: []correlation.PatternFrequency{},
	}

	wallets := make(map[correlation.Pattern]int)
	totalBoost := 0.0

	for _, e := range entries {
		if e.Result == nil {
			summary.ErrorCount++
			continue
		}
		summary.SuccessCount++
		totalBoost += e.Result.TotalBoost
		if e.Result.TotalBoost > 0 {
			summary.WalletsBoosted++
		}
		for _, p := range e.Result.Patterns {
			wallets[p.Pattern]++
		}
	}

	if summary.SuccessCount > 0 {
		summary.AverageBoost = math.Round(totalBoost/float64(summary.SuccessCount)*100) / 100
	}

	for pattern, count := range wallets {
		if count < 2 {
			continue
		}
		summary.CommonPatterns = append(summary.CommonPatterns, correlation.PatternFrequency{Pattern: pattern, WalletCount: count})
	}
	sort.Slice(summary.CommonPatterns, func(i, j int) bool {
		if summary.CommonPatterns[i].WalletCount != summary.CommonPatterns[j].WalletCount {
			return summary.CommonPatterns[i].WalletCount > summary.CommonPatterns[j].WalletCount
		}
		return summary.CommonPatterns[i].Pattern < summary.CommonPatterns[j].Pattern
	})

	return summary
}
