package correlationservice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"polysentinel/internal/domain/correlation"
	"polysentinel/pkg/cache"
	"polysentinel/pkg/errors"
)

const stateVersion = 1

// state is the export blob. It only has to round-trip through ImportData.
type state struct {
	Version                int                                        `json:"version"`
	SnapshotID             uuid.UUID                                  `json:"snapshotId"`
	ExportedAt             time.Time                                  `json:"exportedAt"`
	DuplicatePolicy        correlation.DuplicatePolicy                `json:"duplicatePolicy"`
	MaxBoost               float64                                    `json:"maxBoost"`
	MinCorrelationStrength float64                                    `json:"minCorrelationStrength"`
	Revision               uint64                                     `json:"revision"`
	Pairs                  []correlation.SignalPair                   `json:"pairs"`
	Records                []correlation.EffectivenessRecord          `json:"records"`
	Cache                  []cache.Entry[*correlation.AnalysisResult] `json:"cache"`
}

// ExportData serializes the registry, limits, effectiveness records and cache
func (s *Scorer) ExportData() ([]byte, error) {
	s.mu.RLock()
	st := state{
		Version:                stateVersion,
		SnapshotID:             uuid.New(),
		ExportedAt:             s.clock(),
		DuplicatePolicy:        s.policy,
		MaxBoost:               s.maxBoost,
		MinCorrelationStrength: s.minStrength,
		Revision:               s.revision,
		Pairs:                  append([]correlation.SignalPair{}, s.pairs...),
	}
	s.mu.RUnlock()

	st.Records = s.EffectivenessRecords()
	if st.Records == nil {
		st.Records = []correlation.EffectivenessRecord{}
	}
	st.Cache = s.cache.Entries()

	data, err := json.Marshal(st)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal scorer state")
	}

	s.log.Infow("Correlation state exported",
		"snapshot_id", st.SnapshotID,
		"pairs", len(st.Pairs),
		"records", len(st.Records),
		"cache_entries", len(st.Cache),
	)
	return data, nil
}

func invalidSnapshot(format string, args ...interface{}) error {
	return errors.Wrapf(errors.ErrInvalidSnapshot, format, args...)
}

func decodeState(data []byte) (*state, error) {
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, invalidSnapshot("decode: %v", err)
	}
	if st.Version != stateVersion {
		return nil, invalidSnapshot("unsupported version %d", st.Version)
	}
	if !st.DuplicatePolicy.Valid() {
		return nil, invalidSnapshot("duplicate policy %q", st.DuplicatePolicy)
	}
	if err := validateLimits(st.MaxBoost, st.MinCorrelationStrength); err != nil {
		return nil, invalidSnapshot("%v", err)
	}
	for i, p := range st.Pairs {
		if err := validatePair(p); err != nil {
			return nil, invalidSnapshot("pair[%d]: %v", i, err)
		}
	}
	for i, r := range st.Records {
		if !r.Pattern.Valid() || r.WalletAddress == "" {
			return nil, invalidSnapshot("record[%d] is malformed", i)
		}
	}
	for i, e := range st.Cache {
		if e.Key == "" || e.Value == nil {
			return nil, invalidSnapshot("cache[%d] is malformed", i)
		}
	}
	return &st, nil
}

// ImportData replaces all mutable state with the blob's content. Nothing
// changes if the blob is rejected.
func (s *Scorer) ImportData(data []byte) error {
	st, err := decodeState(data)
	if err != nil {
		return err
	}

	records := st.Records
	if over := len(records) - s.cfg.MaxEffectivenessRecords; over > 0 {
		records = records[over:]
	}

	s.mu.Lock()
	s.pairs = append([]correlation.SignalPair{}, st.Pairs...)
	s.policy = st.DuplicatePolicy
	s.maxBoost = st.MaxBoost
	s.minStrength = st.MinCorrelationStrength
	s.revision = st.Revision
	s.generation++
	s.mu.Unlock()

	s.effMu.Lock()
	s.records = append([]correlation.EffectivenessRecord(nil), records...)
	s.effMu.Unlock()

	s.cache.Load(st.Cache)

	s.log.Infow("Correlation state imported",
		"snapshot_id", st.SnapshotID,
		"exported_at", st.ExportedAt,
		"pairs", len(st.Pairs),
		"records", len(records),
		"cache_entries", s.cache.Len(),
	)
	return nil
}

// SaveSnapshot exports state into store under key
func (s *Scorer) SaveSnapshot(ctx context.Context, store correlation.SnapshotStore, key string, ttl time.Duration) error {
	data, err := s.ExportData()
	if err != nil {
		return err
	}
	if err := store.SaveSnapshot(ctx, key, data, ttl); err != nil {
		return errors.Wrapf(err, "failed to save snapshot %s", key)
	}
	return nil
}

// LoadSnapshot imports state stored under key. errors.ErrSnapshotNotFound is
// returned untouched when nothing is stored.
func (s *Scorer) LoadSnapshot(ctx context.Context, store correlation.SnapshotStore, key string) error {
	data, err := store.LoadSnapshot(ctx, key)
	if err != nil {
		return errors.Wrapf(err, "failed to load snapshot %s", key)
	}
	return s.ImportData(data)
}
