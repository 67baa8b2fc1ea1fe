package manager

import "time"

// Runtime setters. The settings surface lets operators tune the manager
// without a restart; each setter takes effect on the next operation that
// reads it, except where noted.

// SetForceCPU pins future loads to the CPU. The resident model keeps its
// device until it is replaced.
func (m *Manager) SetForceCPU(v bool) {
	m.est.SetForceCPU(v)
	m.log.Info().Bool("force_cpu", v).Msg("device preference updated")
}

// SetVRAMLimit sets the user ceiling on accelerator memory in GB. Values at
// or below zero clear the ceiling.
func (m *Manager) SetVRAMLimit(gb float64) {
	if gb <= 0 {
		gb = 0
	}
	m.mu.Lock()
	m.vramLimitGB = gb
	m.mu.Unlock()
}

// SetDefaultModel changes the model used when a load request omits an id.
// Empty restores auto-selection. The id is not validated here; an unknown id
// surfaces on the next defaulted load.
func (m *Manager) SetDefaultModel(id string) {
	m.mu.Lock()
	m.defaultModel = id
	m.mu.Unlock()
}

// SetIdleUnload changes the idle eviction window. Zero or negative disables
// eviction. When a model is Ready the timer is re-armed (or cancelled)
// immediately with the new duration.
func (m *Manager) SetIdleUnload(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.idleDur = d
	if m.state != StateReady {
		return
	}
	if d == 0 {
		m.cancelIdleTimerLocked()
		return
	}
	m.armIdleTimerLocked()
}

// IdleUnload returns the current idle eviction window, 0 when disabled.
func (m *Manager) IdleUnload() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idleDur
}
