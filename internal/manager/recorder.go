package manager

import "sync"

// Recorder is a Listener that stores every notification in memory. Used by
// tests and by polling clients that want the most recent values.
type Recorder struct {
	mu         sync.Mutex
	progress   []int
	statuses   []string
	loads      int
	benchmarks []float64
	memUsed    float64
	memTotal   float64
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Progress(p int) {
	r.mu.Lock()
	r.progress = append(r.progress, p)
	r.mu.Unlock()
}

func (r *Recorder) Status(s string) {
	r.mu.Lock()
	r.statuses = append(r.statuses, s)
	r.mu.Unlock()
}

func (r *Recorder) Loaded() {
	r.mu.Lock()
	r.loads++
	r.mu.Unlock()
}

func (r *Recorder) Benchmark(tps float64) {
	r.mu.Lock()
	r.benchmarks = append(r.benchmarks, tps)
	r.mu.Unlock()
}

func (r *Recorder) Memory(used, total float64) {
	r.mu.Lock()
	r.memUsed, r.memTotal = used, total
	r.mu.Unlock()
}

// ProgressValues returns a copy of the recorded progress sequence.
func (r *Recorder) ProgressValues() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.progress))
	copy(out, r.progress)
	return out
}

// Statuses returns a copy of the recorded status messages.
func (r *Recorder) Statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.statuses))
	copy(out, r.statuses)
	return out
}

// LoadedCount returns how many times Loaded fired.
func (r *Recorder) LoadedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

// Benchmarks returns a copy of the recorded throughput values.
func (r *Recorder) Benchmarks() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.benchmarks))
	copy(out, r.benchmarks)
	return out
}

// LastMemory returns the most recent memory notification.
func (r *Recorder) LastMemory() (usedGB, totalGB float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memUsed, r.memTotal
}
