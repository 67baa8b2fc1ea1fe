package manager

import "runtime"

// Unload releases the resident model from any state. It drains in-flight
// generation borrows first, so weights are never freed under a running
// generation, then closes the weights handle and forces a garbage pass. The
// tokenizer cache survives. Safe to call when nothing is loaded; an in-flight
// load is fenced off by the epoch bump and its result discarded.
func (m *Manager) Unload() {
	m.mu.Lock()
	m.epoch++
	m.opID = ""
	m.opTarget = ""
	m.state = StateUnloaded
	m.progress = 0
	m.cancelIdleTimerLocked()
	m.mu.Unlock()
	m.releaseCurrent()
	m.emitMemory()
}

// releaseCurrent drains borrows and frees the resident weights without
// touching lifecycle state; callers decide what state the manager lands in.
func (m *Manager) releaseCurrent() {
	m.mu.Lock()
	for m.borrows > 0 {
		m.cond.Wait()
	}
	loaded := m.cur
	m.cur = nil
	m.cancelIdleTimerLocked()
	m.mu.Unlock()

	if loaded != nil {
		m.emitStatus("Unloading model and freeing memory...")
		m.emitProgress(5)
		loaded.Model.DropCaches()
		if err := loaded.Model.Close(); err != nil {
			m.log.Warn().Err(err).Msg("unload warning")
			m.emitStatus("Warning during unload: " + err.Error())
		}
		m.emitProgress(15)
	}
	// Force a collection pass so large weight buffers are handed back to the
	// allocator promptly rather than on the runtime's schedule.
	runtime.GC()
}

// Shutdown tears the manager down for process exit: cancels timers, releases
// device memory, and rejects all further mutating calls. Idempotent; the
// process shutdown hook calls it exactly once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.epoch++
	m.opID = ""
	m.opTarget = ""
	m.state = StateUnloaded
	m.cancelIdleTimerLocked()
	m.mu.Unlock()
	m.releaseCurrent()
	m.log.Info().Msg("manager shut down")
}
