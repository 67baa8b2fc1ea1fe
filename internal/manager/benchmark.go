package manager

import (
	"context"
	"math"
	"time"

	"novad/internal/engine"
	"novad/pkg/types"
)

// benchmark measures generation throughput right after a load with one short
// greedy completion. Best effort: a failing benchmark never fails the load,
// it just reports zero.
func (m *Manager) benchmark(ctx context.Context, loaded *engine.Loaded) float64 {
	start := time.Now()
	res, err := loaded.Model.Generate(ctx, benchPrompt, engine.GenerateOptions{
		MaxNewTokens: benchTokens,
		Temperature:  0,
		TopP:         1,
		TopK:         1,
	}, nil)
	if err != nil {
		m.log.Warn().Err(err).Msg("benchmark failed")
		return 0
	}
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 || res.NewTokens <= 0 {
		return 0
	}
	return math.Round(float64(res.NewTokens)/elapsed*100) / 100
}

// TokensPerSecond returns the throughput measured by the most recent
// post-load benchmark, 0 when none has run.
func (m *Manager) TokensPerSecond() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tps
}

// MemoryUsage reports current accelerator memory occupancy in GB. Both
// values are zero on CPU-only hosts.
func (m *Manager) MemoryUsage() types.MemoryStatus {
	used, total := m.est.Usage()
	return types.MemoryStatus{UsedGB: used, TotalGB: total}
}
