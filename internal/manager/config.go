package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"novad/internal/budget"
	"novad/internal/engine"
	"novad/internal/registry"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultIdleUnload   = 10 * time.Minute
	defaultMaxNewTokens = 256
	defaultContextSize  = 2048
	defaultThreads      = 4
)

// Warm-up and benchmark parameters.
const (
	warmupPrompt = "Hello"
	warmupTokens = 2
	benchPrompt  = "The quick brown fox"
	benchTokens  = 16
)

// Config encapsulates all tunables for Manager construction. The manager is
// constructor-injected everywhere it is used; there is no shared global.
type Config struct {
	Registry *registry.Registry
	Backend  engine.Backend
	Probe    budget.Probe
	Logger   zerolog.Logger

	// DefaultModel is loaded when a request omits the model id. Empty means
	// auto-select under the memory budget.
	DefaultModel string
	// ForceCPU disables the accelerator even when one is detected.
	ForceCPU bool
	// VRAMLimitGB is the user ceiling on accelerator memory, 0 when unset.
	VRAMLimitGB float64
	// IdleUnload is how long a ready model may sit unused before being
	// evicted. Zero uses the package default; negative disables eviction.
	IdleUnload time.Duration
	// MaxNewTokens is the generation default when a request passes 0.
	MaxNewTokens int
	// ContextSize and Threads are passed through to the backend.
	ContextSize int
	Threads     int
}

// New constructs a Manager from Config, applying defaults for unset fields.
func New(cfg Config) *Manager {
	if cfg.Registry == nil {
		cfg.Registry = registry.Default()
	}
	if cfg.Backend == nil {
		cfg.Backend = engine.NewLlamaBackend()
	}
	est := budget.NewEstimator(cfg.Probe)
	est.SetForceCPU(cfg.ForceCPU)

	idle := cfg.IdleUnload
	if idle == 0 {
		idle = defaultIdleUnload
	} else if idle < 0 {
		idle = 0
	}
	maxNew := cfg.MaxNewTokens
	if maxNew <= 0 {
		maxNew = defaultMaxNewTokens
	}
	ctxSize := cfg.ContextSize
	if ctxSize <= 0 {
		ctxSize = defaultContextSize
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = defaultThreads
	}

	m := &Manager{
		state:        StateUnloaded,
		registry:     cfg.Registry,
		backend:      cfg.Backend,
		est:          est,
		eng:          engine.New(cfg.Logger),
		bus:          NewBus(cfg.Logger),
		log:          cfg.Logger,
		defaultModel: cfg.DefaultModel,
		vramLimitGB:  cfg.VRAMLimitGB,
		idleDur:      idle,
		maxNewTokens: maxNew,
		ctxSize:      ctxSize,
		threads:      threads,
		tokCache:     make(map[string]engine.Tokenizer),
		startTime:    time.Now(),
	}
	m.cond = sync.NewCond(&m.mu)
	return m
}
