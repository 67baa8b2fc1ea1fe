//go:build !llama

package engine

// This file provides a no-CGO stub for the llama backend. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real backend lives in backend_llama.go (tagged 'llama').

import (
	"context"

	"novad/pkg/types"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

type llamaBackend struct{}

// NewLlamaBackend returns a stub that satisfies Backend but refuses to load
// weights without the 'llama' build tag. No mocked inference in production
// binaries.
func NewLlamaBackend() Backend { return &llamaBackend{} }

func (b *llamaBackend) LoadModel(ctx context.Context, desc types.Descriptor, opts LoadOptions) (Model, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (b *llamaBackend) LoadTokenizer(ctx context.Context, desc types.Descriptor) (Tokenizer, error) {
	// Tokenizers are cheap; the heuristic one works without native code.
	return HeuristicTokenizer{}, nil
}
