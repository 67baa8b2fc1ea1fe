//go:build llama

package engine

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"

	"novad/pkg/types"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// gpuAllLayers offloads every layer when running on the accelerator.
const gpuAllLayers = 9999

type llamaBackend struct{}

// NewLlamaBackend returns the in-process llama.cpp backend.
func NewLlamaBackend() Backend { return &llamaBackend{} }

func (b *llamaBackend) LoadModel(ctx context.Context, desc types.Descriptor, opts LoadOptions) (Model, error) {
	if strings.TrimSpace(desc.Source) == "" {
		return nil, errors.New("model source is empty")
	}
	mo := []llama.ModelOption{
		llama.SetContext(opts.ContextSize),
	}
	if opts.Device == types.DeviceAccelerator {
		mo = append(mo, llama.SetGPULayers(gpuAllLayers))
		if opts.Quantize {
			// GGUF weights are already quantized on disk; keep the KV cache
			// in f16 to hold the resident footprint down.
			mo = append(mo, llama.EnableF16Memory)
		}
	}
	m, err := llama.New(desc.Source, mo...)
	if err != nil {
		if isOOMText(err) {
			return nil, OutOfMemory(err)
		}
		return nil, err
	}
	return &llamaModel{model: m, threads: opts.Threads}, nil
}

func (b *llamaBackend) LoadTokenizer(ctx context.Context, desc types.Descriptor) (Tokenizer, error) {
	// llama.cpp tokenizes inside Predict with the model's own vocab; the
	// engine-side bound only needs an approximation.
	return HeuristicTokenizer{}, nil
}

type llamaModel struct {
	model   *llama.LLama
	threads int
}

func (m *llamaModel) Generate(ctx context.Context, prompt string, opts GenerateOptions, onFragment func(string) error) (Result, error) {
	if m.model == nil {
		return Result{}, errors.New("llama model not initialized")
	}
	tokens := 0
	m.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		tokens++
		if onFragment != nil {
			if err := onFragment(tok); err != nil {
				return false
			}
		}
		return true
	})
	po := []llama.PredictOption{
		llama.SetTokens(maxInt(1, opts.MaxNewTokens)),
		llama.SetThreads(maxInt(1, m.threads)),
		llama.SetTemperature(float32(opts.Temperature)),
		llama.SetTopP(float32(opts.TopP)),
		llama.SetTopK(opts.TopK),
	}
	if opts.Seed != 0 {
		po = append(po, llama.SetSeed(opts.Seed))
	}
	text, err := m.model.Predict(prompt, po...)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if isOOMText(err) {
			return Result{}, OutOfMemory(err)
		}
		return Result{}, err
	}
	return Result{Content: text, NewTokens: tokens}, nil
}

func (m *llamaModel) DropCaches() {
	// llama.cpp reclaims scratch buffers with the model; nothing to do
	// between calls.
}

func (m *llamaModel) Close() error {
	if m.model != nil {
		m.model.Free()
		m.model = nil
	}
	return nil
}

func isOOMText(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "out of memory") || strings.Contains(s, "failed to allocate")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
