package manager

import (
	"context"
	"time"

	"novad/internal/engine"
)

// Sentinel replies. Generation against a not-ready manager and generation
// failures are normal interactive conditions, surfaced as displayable text
// rather than errors.
const (
	notReadyText = "Model not ready."
	oomText      = "Out of accelerator memory. Try a shorter prompt or a smaller model."
	genErrPrefix = "Generation error: "
)

// Generate runs one blocking completion against the resident model. It is
// expected to be invoked from a caller-managed worker goroutine, never the
// one rendering UI. Returns sentinel text when no model is ready or when the
// call fails; the manager stays Ready and usable either way. A successful
// call re-arms the idle eviction timer.
func (m *Manager) Generate(ctx context.Context, prompt string, maxNewTokens int, temperature float64) string {
	loaded, ok := m.borrow()
	if !ok {
		return notReadyText
	}
	if maxNewTokens <= 0 {
		maxNewTokens = m.maxNewTokens
	}
	start := time.Now()
	out, err := m.eng.Generate(ctx, loaded, prompt, maxNewTokens, temperature)
	m.release(loaded, err == nil)
	generateDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if engine.IsOutOfMemory(err) {
			return oomText
		}
		return genErrPrefix + err.Error()
	}
	return out
}

// GenerateStream is Generate with incremental output: fragments arrive on the
// returned channel as they are produced and the channel closes when the
// stream ends. Failures surface as a final sentinel fragment. The stream is
// finite and non-restartable; draining it yields the same text Generate
// would return.
func (m *Manager) GenerateStream(ctx context.Context, prompt string, maxNewTokens int, temperature float64) <-chan string {
	out := make(chan string, 1)
	loaded, ok := m.borrow()
	if !ok {
		out <- notReadyText
		close(out)
		return out
	}
	if maxNewTokens <= 0 {
		maxNewTokens = m.maxNewTokens
	}
	frags, errc := m.eng.GenerateStream(ctx, loaded, prompt, maxNewTokens, temperature)
	go func() {
		defer close(out)
		for f := range frags {
			select {
			case out <- f:
			case <-ctx.Done():
				// Consumer went away; drain the worker so it can finish.
				for range frags {
				}
			}
		}
		err := <-errc
		m.release(loaded, err == nil)
		if err != nil && ctx.Err() == nil {
			if engine.IsOutOfMemory(err) {
				out <- oomText
			} else {
				out <- genErrPrefix + err.Error()
			}
		}
	}()
	return out
}

// borrow takes a counted reference to the resident model, valid for the
// duration of one call. Unload waits for all borrows to drain.
func (m *Manager) borrow() (*engine.Loaded, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.state != StateReady || m.cur == nil {
		return nil, false
	}
	m.borrows++
	return m.cur, true
}

// release returns a borrow and, after a successful call, re-arms the idle
// timer when the same model is still resident.
func (m *Manager) release(loaded *engine.Loaded, success bool) {
	m.mu.Lock()
	m.borrows--
	if m.borrows == 0 {
		m.cond.Broadcast()
	}
	if success && m.state == StateReady && m.cur == loaded {
		m.armIdleTimerLocked()
	}
	m.mu.Unlock()
}
