package manager

import (
	"time"

	"novad/pkg/types"
)

// Status assembles the full operational report served by GET /status.
func (m *Manager) Status() types.StatusResponse {
	detected := m.est.DetectTotalGB()
	used, total := m.est.Usage()

	m.mu.Lock()
	defer m.mu.Unlock()

	resp := types.StatusResponse{
		State:      string(m.state),
		Progress:   m.progress,
		LastStatus: m.lastStatus,
		LastError:  m.lastErr,
		Budget: types.BudgetStatus{
			DetectedGB:  detected,
			CeilingGB:   m.vramLimitGB,
			EffectiveGB: m.est.EffectiveLimit(m.vramLimitGB),
		},
		Memory:            types.MemoryStatus{UsedGB: used, TotalGB: total},
		TokensPerSecond:   m.tps,
		IdleUnloadSeconds: int(m.idleDur / time.Second),
		LoadsTotal:        m.loadsTotal,
		IdleUnloadsTotal:  m.idleUnloadsTotal,
		UptimeSeconds:     int64(time.Since(m.startTime) / time.Second),
	}
	if m.cur != nil {
		d := m.cur.Desc
		resp.CurrentModel = &d
		resp.Device = string(m.cur.Device)
	}
	return resp
}
