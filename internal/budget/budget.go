// Package budget estimates the accelerator memory available to the process
// and picks the best-fitting model under that budget. Limits are recomputed on
// every call; available memory changes between calls as other processes and
// prior unloads come and go, so nothing here is cached.
package budget

import (
	"sync"

	"novad/pkg/types"
)

// Probe reports accelerator allocator state. Implementations must return
// (0, 0) when no accelerator is present.
type Probe interface {
	// TotalGB returns total accelerator memory in GB, 0 when absent.
	TotalGB() float64
	// UsedGB returns currently allocated accelerator memory in GB.
	UsedGB() float64
}

// NoAccelerator is the probe for CPU-only hosts.
type NoAccelerator struct{}

func (NoAccelerator) TotalGB() float64 { return 0 }
func (NoAccelerator) UsedGB() float64  { return 0 }

// StaticProbe reports a fixed accelerator size for hosts where the runtime
// cannot query the allocator directly and the operator declares it instead.
type StaticProbe struct {
	Total float64
}

func (p StaticProbe) TotalGB() float64 { return p.Total }
func (p StaticProbe) UsedGB() float64  { return 0 }

// Estimator applies the force-CPU override and optional user ceiling on top
// of the probed accelerator memory.
type Estimator struct {
	mu       sync.Mutex
	probe    Probe
	forceCPU bool
}

// NewEstimator builds an estimator over the given probe. A nil probe behaves
// like NoAccelerator.
func NewEstimator(probe Probe) *Estimator {
	if probe == nil {
		probe = NoAccelerator{}
	}
	return &Estimator{probe: probe}
}

// SetForceCPU toggles the CPU-only override.
func (e *Estimator) SetForceCPU(v bool) {
	e.mu.Lock()
	e.forceCPU = v
	e.mu.Unlock()
}

// ForceCPU reports whether the CPU-only override is active.
func (e *Estimator) ForceCPU() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.forceCPU
}

// DetectTotalGB returns total accelerator memory in GB. The zero return is a
// sentinel meaning "unconstrained by accelerator memory, use CPU"; it covers
// both a missing accelerator and an active force-CPU override.
func (e *Estimator) DetectTotalGB() float64 {
	e.mu.Lock()
	forced := e.forceCPU
	probe := e.probe
	e.mu.Unlock()
	if forced {
		return 0
	}
	return probe.TotalGB()
}

// Usage returns (used, total) accelerator memory in GB. (0, 0) means
// "not applicable" on CPU-only hosts, not "fully idle".
func (e *Estimator) Usage() (float64, float64) {
	e.mu.Lock()
	forced := e.forceCPU
	probe := e.probe
	e.mu.Unlock()
	if forced {
		return 0, 0
	}
	total := probe.TotalGB()
	if total <= 0 {
		return 0, 0
	}
	return probe.UsedGB(), total
}

// EffectiveLimit combines detected memory with the user ceiling: the minimum
// when both are positive, whichever is set otherwise, else 0.
func (e *Estimator) EffectiveLimit(userCeilingGB float64) float64 {
	detected := e.DetectTotalGB()
	switch {
	case detected > 0 && userCeilingGB > 0:
		if userCeilingGB < detected {
			return userCeilingGB
		}
		return detected
	case userCeilingGB > 0:
		return userCeilingGB
	default:
		return detected
	}
}

// SelectBestFit picks the entry with the largest footprint not exceeding
// limitGB. When nothing fits, including the limit-0 CPU-only case, it falls
// back to the single smallest entry: the footprints are accelerator estimates
// and CPU execution is always assumed possible. Ties keep declaration order.
func SelectBestFit(entries []types.Descriptor, limitGB float64) (types.Descriptor, bool) {
	if len(entries) == 0 {
		return types.Descriptor{}, false
	}
	best := -1
	smallest := 0
	for i, d := range entries {
		if d.EstMemoryGB < entries[smallest].EstMemoryGB {
			smallest = i
		}
		if limitGB > 0 && d.EstMemoryGB <= limitGB {
			if best < 0 || d.EstMemoryGB > entries[best].EstMemoryGB {
				best = i
			}
		}
	}
	if best >= 0 {
		return entries[best], true
	}
	return entries[smallest], true
}
