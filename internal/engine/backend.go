package engine

import (
	"context"
	"time"

	"novad/pkg/types"
)

// LoadOptions configures how a backend materializes model weights.
type LoadOptions struct {
	Device types.Device
	// Quantize requests post-training quantization to shrink the resident
	// footprint. Only meaningful on the accelerator.
	Quantize    bool
	ContextSize int
	Threads     int
}

// GenerateOptions are the sampling parameters for one generation call.
type GenerateOptions struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	TopK         int
	Seed         int
}

// Result summarizes one completed generation. Content holds only the newly
// generated text, never the echoed prompt.
type Result struct {
	Content   string
	NewTokens int
}

// Model is a loaded weights handle. The manager owns it exclusively; the
// engine borrows it for the duration of a single call and must not retain it.
type Model interface {
	// Generate runs one completion. onFragment, when non-nil, receives text
	// fragments as they are produced; returning an error stops generation.
	Generate(ctx context.Context, prompt string, opts GenerateOptions, onFragment func(string) error) (Result, error)
	// DropCaches releases transient allocator caches after a failure. Best
	// effort; must not fail.
	DropCaches()
	// Close releases the weights and reclaims device memory.
	Close() error
}

// Tokenizer bounds prompt length. Tokenizers are cheap relative to weights,
// so the manager caches them per source and never evicts.
type Tokenizer interface {
	Count(text string) int
	Truncate(text string, maxTokens int) string
}

// Backend abstracts the ML runtime that loads weights and tokenizers.
type Backend interface {
	LoadModel(ctx context.Context, desc types.Descriptor, opts LoadOptions) (Model, error)
	LoadTokenizer(ctx context.Context, desc types.Descriptor) (Tokenizer, error)
}

// Loaded bundles everything belonging to the one currently resident model.
// Exactly zero or one instance exists at a time, owned by the manager.
type Loaded struct {
	Desc      types.Descriptor
	Model     Model
	Tokenizer Tokenizer
	Device    types.Device
	LoadedAt  time.Time
}
