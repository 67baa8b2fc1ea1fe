package manager

import "time"

// Idle eviction. A single-shot timer is armed whenever a model becomes Ready
// and re-armed after each successful generation. Firing unloads the model to
// return its memory. idleSeq fences a stale timer that fires concurrently
// with a re-arm or an explicit unload.

const idleStatusText = "Idle timeout reached, unloading model to free memory."

func (m *Manager) armIdleTimerLocked() {
	if m.idleDur <= 0 {
		return
	}
	m.cancelIdleTimerLocked()
	m.idleSeq++
	seq := m.idleSeq
	m.idleTimer = time.AfterFunc(m.idleDur, func() { m.idleFire(seq) })
}

func (m *Manager) cancelIdleTimerLocked() {
	m.idleSeq++
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
}

func (m *Manager) idleFire(seq uint64) {
	m.mu.Lock()
	if m.closed || seq != m.idleSeq || m.state != StateReady || m.cur == nil {
		m.mu.Unlock()
		return
	}
	m.log.Info().Str("model", m.cur.Desc.ID).Dur("idle", m.idleDur).Msg("idle timeout, unloading")
	m.epoch++
	m.opID, m.opTarget = "", ""
	m.state = StateUnloaded
	m.progress = 0
	m.idleTimer = nil
	m.idleUnloadsTotal++
	m.mu.Unlock()

	idleUnloads.Inc()
	m.emitStatus(idleStatusText)
	m.releaseCurrent()
	m.emitMemory()
}
