package types

// Device indicates where model weights are resident.
type Device string

const (
	DeviceCPU         Device = "cpu"
	DeviceAccelerator Device = "accelerator"
)

// Descriptor is the immutable metadata record for one selectable model.
// Instances are created at registry construction time and never mutated.
type Descriptor struct {
	// Stable identifier shown to users and used in API requests.
	// example: phi3-mini
	ID string `json:"id" yaml:"id" toml:"id" example:"phi3-mini"`
	// Weight source: a local path or a hub locator, resolved by the backend.
	// example: microsoft/Phi-3.5-mini-instruct
	Source string `json:"source" yaml:"source" toml:"source" example:"microsoft/Phi-3.5-mini-instruct"`
	// Estimated accelerator memory footprint in GB. Conservative; used only
	// for best-fit selection, never enforced on CPU.
	// example: 3.0
	EstMemoryGB float64 `json:"est_memory_gb" yaml:"est_memory_gb" toml:"est_memory_gb" example:"3.0"`
	// Model family (mistral, phi3, deepseek, qwen).
	// example: phi3
	Family string `json:"family,omitempty" yaml:"family,omitempty" toml:"family,omitempty" example:"phi3"`
	// Prompt template with a {prompt} placeholder. Set explicitly per
	// descriptor instead of being inferred from the id.
	Template string `json:"template,omitempty" yaml:"template,omitempty" toml:"template,omitempty"`
}
