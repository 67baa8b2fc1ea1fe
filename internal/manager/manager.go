package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"novad/internal/budget"
	"novad/internal/engine"
	"novad/internal/registry"
	"novad/pkg/types"
)

type Manager struct {
	mu   sync.Mutex
	cond *sync.Cond // signaled when borrows drops to zero

	state  State
	cur    *engine.Loaded
	closed bool

	// borrows counts in-flight generations holding a reference to cur.
	// Unload drains it before releasing weights.
	borrows int

	// epoch fences asynchronous workers: bumped at every operation start and
	// every unload, checked before any worker writes its result back.
	epoch uint64

	// opID/opTarget identify the single in-flight load/switch, empty when idle.
	opID     string
	opTarget string

	progress   int
	lastStatus string
	lastErr    string
	tps        float64

	loadsTotal       uint64
	idleUnloadsTotal uint64

	// tokCache maps model source to tokenizer. Populated lazily, never
	// evicted: tokenizers are cheap relative to weights and keeping them
	// makes re-switching fast.
	tokCache map[string]engine.Tokenizer

	idleTimer *time.Timer
	idleSeq   uint64
	idleDur   time.Duration

	defaultModel string
	vramLimitGB  float64
	maxNewTokens int
	ctxSize      int
	threads      int

	startTime time.Time

	registry *registry.Registry
	backend  engine.Backend
	est      *budget.Estimator
	eng      *engine.Engine
	bus      *Bus
	log      zerolog.Logger
}

// Subscribe registers a lifecycle listener.
func (m *Manager) Subscribe(l Listener) { m.bus.Subscribe(l) }

// Ready reports whether a model is loaded and generation is possible.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateReady && m.cur != nil
}

// ListModels returns the registry contents in declaration order.
func (m *Manager) ListModels() []types.Descriptor { return m.registry.All() }

// DefaultModel returns the configured default model id, which may be empty
// when auto-selection is active.
func (m *Manager) DefaultModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaultModel
}

// CurrentModel returns the descriptor of the loaded model, or false.
func (m *Manager) CurrentModel() (types.Descriptor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return types.Descriptor{}, false
	}
	return m.cur.Desc, true
}

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		State:      m.state,
		Progress:   m.progress,
		LastStatus: m.lastStatus,
		LastError:  m.lastErr,
		Epoch:      m.epoch,
	}
	if m.cur != nil {
		d := m.cur.Desc
		s.CurrentModel = &d
		s.Device = m.cur.Device
	}
	return s
}

// resolveTarget maps a possibly-empty id to a descriptor: explicit id wins,
// then the configured default, then best-fit auto-selection.
func (m *Manager) resolveTarget(id string) (types.Descriptor, error) {
	if id == "" {
		m.mu.Lock()
		id = m.defaultModel
		m.mu.Unlock()
	}
	if id != "" {
		return m.registry.Resolve(id)
	}
	limit := m.est.EffectiveLimit(m.vramLimit())
	d, ok := budget.SelectBestFit(m.registry.All(), limit)
	if !ok {
		return types.Descriptor{}, registry.ErrUnknownModel("(empty registry)")
	}
	return d, nil
}

func (m *Manager) vramLimit() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vramLimitGB
}

// emitProgress clamps to 0..100 and keeps the sequence monotone within an
// operation (progress is reset to 0 when an operation begins).
func (m *Manager) emitProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	m.mu.Lock()
	if p < m.progress {
		p = m.progress
	}
	m.progress = p
	m.mu.Unlock()
	m.bus.progress(p)
}

func (m *Manager) emitStatus(s string) {
	m.mu.Lock()
	m.lastStatus = s
	m.mu.Unlock()
	m.log.Debug().Msg(s)
	m.bus.status(s)
}

func (m *Manager) emitMemory() {
	used, total := m.est.Usage()
	memoryUsedGB.Set(used)
	memoryTotalGB.Set(total)
	m.bus.memory(used, total)
}
