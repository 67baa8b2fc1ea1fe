package manager

// SwitchModel replaces the resident model with the given one. Unlike
// StartLoad it requires an explicit, registered id. Returns an empty
// operation id with no error when the model is already resident. While
// another load/switch is in flight the call is rejected with a busy error
// rather than queued; the caller sees which model is being worked on and can
// retry once it settles.
func (m *Manager) SwitchModel(id string) (string, error) {
	desc, err := m.registry.Resolve(id)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrClosed()
	}
	if m.state == StateReady && m.cur != nil && m.cur.Desc.ID == desc.ID {
		m.mu.Unlock()
		return "", nil
	}
	if m.opID != "" {
		target := m.opTarget
		m.mu.Unlock()
		return "", ErrBusy(target)
	}
	op := m.beginOpLocked(desc)
	m.mu.Unlock()

	switchesTotal.Inc()
	m.emitStatus("Switching to " + id + "...")
	return op, nil
}
