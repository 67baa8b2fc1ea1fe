package manager

import (
	"context"
	"time"

	"github.com/google/uuid"

	"novad/internal/engine"
	"novad/pkg/types"
)

// StartLoad kicks off an asynchronous load of the given model and returns an
// operation id. An empty id means "the configured default, or the best fit
// under the current memory budget". The call is idempotent against duplicate
// requests: while a load/switch is already in flight, or when the requested
// model is already ready, it returns an empty operation id and no error. UI
// re-entrancy double-fires load buttons; that is not an error condition.
func (m *Manager) StartLoad(id string) (string, error) {
	desc, err := m.resolveTarget(id)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed()
	}
	if m.opID != "" {
		return "", nil
	}
	if m.state == StateReady && m.cur != nil && m.cur.Desc.ID == desc.ID {
		return "", nil
	}
	return m.beginOpLocked(desc), nil
}

// beginOpLocked claims the single in-flight operation slot and spawns the
// load worker. Caller holds m.mu.
func (m *Manager) beginOpLocked(desc types.Descriptor) string {
	op := uuid.NewString()
	m.opID = op
	m.opTarget = desc.ID
	m.epoch++
	if m.state == StateReady {
		m.state = StateSwitching
	} else {
		m.state = StateLoading
	}
	m.progress = 0
	m.lastErr = ""
	go m.loadWorker(desc, m.epoch)
	return op
}

// loadWorker runs the full load sequence off the caller's goroutine:
// unload current, tokenizer, weights, warm-up, benchmark, write-back. Any
// failure is caught here; nothing escapes the worker.
func (m *Manager) loadWorker(desc types.Descriptor, epoch uint64) {
	ctx := context.Background()
	m.emitProgress(10)
	m.emitStatus("Beginning model load...")

	// Always drop whatever is resident first; safe even when nothing is.
	m.releaseCurrent()
	m.emitProgress(20)

	m.emitStatus("Loading tokenizer...")
	m.emitProgress(30)
	tok, err := m.tokenizerFor(ctx, desc)
	if err != nil {
		m.failLoad(epoch, err)
		return
	}
	m.emitProgress(40)

	m.emitStatus("Loading model weights...")
	m.emitProgress(55)
	device := types.DeviceCPU
	if m.est.DetectTotalGB() > 0 {
		device = types.DeviceAccelerator
	}
	opts := engine.LoadOptions{
		Device: device,
		// Quantize on the accelerator to shrink the resident footprint;
		// CPU loads take the weights as-is.
		Quantize:    device == types.DeviceAccelerator,
		ContextSize: m.ctxSize,
		Threads:     m.threads,
	}
	mdl, err := m.backend.LoadModel(ctx, desc, opts)
	if err != nil {
		m.failLoad(epoch, err)
		return
	}
	m.emitProgress(80)
	m.emitStatus("Finalizing model setup...")

	loaded := &engine.Loaded{
		Desc:      desc,
		Model:     mdl,
		Tokenizer: tok,
		Device:    device,
		LoadedAt:  time.Now(),
	}

	// Warm-up: a short throwaway generation primes internal caches and
	// surfaces load-time errors before the model is announced ready.
	if _, err := m.eng.Generate(ctx, loaded, warmupPrompt, warmupTokens, 0); err != nil {
		_ = mdl.Close()
		m.failLoad(epoch, err)
		return
	}
	m.emitProgress(90)

	tps := m.benchmark(ctx, loaded)

	m.mu.Lock()
	if m.epoch != epoch || m.closed {
		// Superseded by an unload, another operation, or shutdown: discard
		// the result instead of clobbering state.
		m.mu.Unlock()
		_ = mdl.Close()
		return
	}
	m.cur = loaded
	m.state = StateReady
	m.tps = tps
	m.loadsTotal++
	m.opID = ""
	m.opTarget = ""
	m.armIdleTimerLocked()
	m.mu.Unlock()

	loadsTotal.Inc()
	tokensPerSecond.Set(tps)
	m.emitProgress(100)
	m.emitStatus("Model ready")
	m.bus.benchmark(tps)
	m.bus.loaded()
	m.emitMemory()
}

// failLoad resets to Unloaded after a failed load. Load failure is always
// recoverable: no partial model survives and the next StartLoad begins clean.
func (m *Manager) failLoad(epoch uint64, err error) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	m.state = StateUnloaded
	m.cur = nil
	m.opID = ""
	m.opTarget = ""
	m.lastErr = err.Error()
	m.mu.Unlock()
	loadFailures.Inc()
	m.log.Error().Err(err).Msg("model load failed")
	m.emitStatus("Load failed: " + err.Error())
}

// tokenizerFor returns the cached tokenizer for the descriptor's source, or
// loads and caches one. Entries are never evicted.
func (m *Manager) tokenizerFor(ctx context.Context, desc types.Descriptor) (engine.Tokenizer, error) {
	m.mu.Lock()
	tok, ok := m.tokCache[desc.Source]
	m.mu.Unlock()
	if ok {
		return tok, nil
	}
	tok, err := m.backend.LoadTokenizer(ctx, desc)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	if existing, ok := m.tokCache[desc.Source]; ok {
		tok = existing
	} else {
		m.tokCache[desc.Source] = tok
	}
	m.mu.Unlock()
	return tok, nil
}
