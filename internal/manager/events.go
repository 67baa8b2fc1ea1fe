package manager

import (
	"sync"

	"github.com/rs/zerolog"
)

// Listener receives lifecycle notifications. Methods may be invoked from a
// worker goroutine other than the one that subscribed; the subscribing side
// is responsible for marshaling onto its own thread before touching anything
// thread-unsafe. Implementations should be lightweight and non-blocking.
type Listener interface {
	// Progress reports load progress, monotonically non-decreasing 0 to 100
	// within one load operation.
	Progress(percent int)
	// Status reports a human-readable state message.
	Status(message string)
	// Loaded fires once when a model becomes ready.
	Loaded()
	// Benchmark reports measured throughput after a load.
	Benchmark(tokensPerSecond float64)
	// Memory reports accelerator usage in GB; (0, 0) means CPU-only.
	Memory(usedGB, totalGB float64)
}

// Bus fans lifecycle events out to subscribers. Every dispatch is guarded: a
// panicking listener is logged and discarded so a misbehaving observer cannot
// break the state machine.
type Bus struct {
	mu   sync.RWMutex
	subs []Listener
	log  zerolog.Logger
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{log: log}
}

// Subscribe registers a listener. There is no unsubscribe: subscribers live
// as long as the manager.
func (b *Bus) Subscribe(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	b.subs = append(b.subs, l)
	b.mu.Unlock()
}

func (b *Bus) each(event string, fn func(Listener)) {
	b.mu.RLock()
	subs := make([]Listener, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()
	for _, l := range subs {
		b.guarded(event, l, fn)
	}
}

func (b *Bus) guarded(event string, l Listener, fn func(Listener)) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn().Str("event", event).Interface("panic", r).Msg("listener panicked; discarded")
		}
	}()
	fn(l)
}

func (b *Bus) progress(p int) { b.each("progress", func(l Listener) { l.Progress(p) }) }
func (b *Bus) status(s string) {
	b.each("status", func(l Listener) { l.Status(s) })
}
func (b *Bus) loaded() { b.each("loaded", func(l Listener) { l.Loaded() }) }
func (b *Bus) benchmark(tps float64) {
	b.each("benchmark", func(l Listener) { l.Benchmark(tps) })
}
func (b *Bus) memory(used, total float64) {
	b.each("memory", func(l Listener) { l.Memory(used, total) })
}
