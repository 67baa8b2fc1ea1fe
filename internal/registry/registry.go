// Package registry holds the static model table: which models can be loaded,
// where their weights come from, and how much accelerator memory they are
// expected to need. It has no behavior beyond lookup.
package registry

import "novad/pkg/types"

// DefaultTemplate is the generic instruction-bracket template used when a
// descriptor does not declare one.
const DefaultTemplate = "[INST] {prompt} [/INST]"

// Built-in prompt templates per family. Attached to descriptors at
// construction time; nothing matches on the model id at generation time.
const (
	mistralTemplate  = "<s>[INST] {prompt} [/INST]"
	phi3Template     = "<|user|>\n{prompt}<|end|>\n<|assistant|>"
	deepseekTemplate = "<|begin_of_sentence|>User: {prompt}\n\nAssistant:"
	qwenTemplate     = "<|im_start|>user\n{prompt}<|im_end|>\n<|im_start|>assistant\n"
)

// Builtins returns the built-in model table in declaration order. Footprints
// are conservative estimates for 4-bit quantized weights.
func Builtins() []types.Descriptor {
	return []types.Descriptor{
		{ID: "mistral-7b", Source: "mistralai/Mistral-7B-Instruct-v0.2", EstMemoryGB: 6.0, Family: "mistral", Template: mistralTemplate},
		{ID: "phi3-mini", Source: "microsoft/Phi-3.5-mini-instruct", EstMemoryGB: 3.0, Family: "phi3", Template: phi3Template},
		{ID: "deepseek-1.5b", Source: "deepseek-ai/DeepSeek-R1-Distill-Qwen-1.5B", EstMemoryGB: 2.0, Family: "deepseek", Template: deepseekTemplate},
		{ID: "qwen2.5-1.5b", Source: "Qwen/Qwen2.5-1.5B-Instruct", EstMemoryGB: 1.5, Family: "qwen", Template: qwenTemplate},
	}
}

// Registry is an ordered, immutable lookup table of model descriptors.
type Registry struct {
	entries []types.Descriptor
	index   map[string]int
}

// New builds a registry from the given descriptors, preserving order. A
// descriptor without a template gets DefaultTemplate. Duplicate ids keep the
// last occurrence but retain the original position.
func New(entries []types.Descriptor) *Registry {
	r := &Registry{index: make(map[string]int, len(entries))}
	for _, d := range entries {
		if d.Template == "" {
			d.Template = DefaultTemplate
		}
		if i, ok := r.index[d.ID]; ok {
			r.entries[i] = d
			continue
		}
		r.index[d.ID] = len(r.entries)
		r.entries = append(r.entries, d)
	}
	return r
}

// Default returns the registry of built-in models.
func Default() *Registry { return New(Builtins()) }

// Resolve looks up a descriptor by id.
func (r *Registry) Resolve(id string) (types.Descriptor, error) {
	if i, ok := r.index[id]; ok {
		return r.entries[i], nil
	}
	return types.Descriptor{}, ErrUnknownModel(id)
}

// AllIDs returns the registered ids in declaration order.
func (r *Registry) AllIDs() []string {
	out := make([]string, len(r.entries))
	for i, d := range r.entries {
		out[i] = d.ID
	}
	return out
}

// All returns a copy of the descriptors in declaration order.
func (r *Registry) All() []types.Descriptor {
	out := make([]types.Descriptor, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of registered models.
func (r *Registry) Len() int { return len(r.entries) }
