package types

// GenerateRequest is the payload accepted by POST /generate and POST /chat.
type GenerateRequest struct {
	// Required prompt text to generate a completion for.
	// example: Explain what SFC /scannow found.
	Prompt string `json:"prompt" example:"Explain what SFC /scannow found."`
	// If true, stream fragments as NDJSON lines; otherwise buffer the result.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
	// Maximum number of new tokens to generate. Zero uses the server default.
	// example: 256
	MaxNewTokens int `json:"max_new_tokens,omitempty" example:"256"`
	// Sampling temperature. Zero or negative selects greedy decoding.
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
}

// LoadRequest is the payload for POST /load and POST /switch.
type LoadRequest struct {
	// Model id from the registry. Empty on /load means auto-select under the
	// current memory budget.
	// example: phi3-mini
	Model string `json:"model,omitempty" example:"phi3-mini"`
}

// OpResponse acknowledges an asynchronous load or switch request.
type OpResponse struct {
	// Operation id for correlating status updates. Empty when the request was
	// a no-op (already loading, or already using the requested model).
	// example: 9bb3c1de-5a9a-4c8f-9b6d-2f1f1a3f7f10
	OpID string `json:"op_id,omitempty" example:"9bb3c1de-5a9a-4c8f-9b6d-2f1f1a3f7f10"`
	// Human-readable acknowledgement.
	// example: Loading phi3-mini...
	Status string `json:"status" example:"Loading phi3-mini..."`
}

// ModelsResponse wraps the registry listing returned by GET /models.
type ModelsResponse struct {
	// All registered model descriptors in declaration order.
	Models []Descriptor `json:"models"`
	// Default model id used when a load request omits the model.
	// example: phi3-mini
	Default string `json:"default,omitempty" example:"phi3-mini"`
}

// BudgetStatus reports the memory budget inputs used for model selection.
type BudgetStatus struct {
	// Total accelerator memory detected in GB. Zero means CPU-only.
	// example: 8.0
	DetectedGB float64 `json:"detected_gb" example:"8.0"`
	// User-configured ceiling in GB, 0 when unset.
	// example: 6.0
	CeilingGB float64 `json:"ceiling_gb,omitempty" example:"6.0"`
	// Effective limit applied to best-fit selection.
	// example: 6.0
	EffectiveGB float64 `json:"effective_gb" example:"6.0"`
}

// MemoryStatus is the accelerator allocator view returned by GET /memory.
// Both fields are 0.0 when running CPU-only; callers must treat that as
// "not applicable" rather than "idle".
type MemoryStatus struct {
	// example: 2.431
	UsedGB float64 `json:"used_gb" example:"2.431"`
	// example: 8.0
	TotalGB float64 `json:"total_gb" example:"8.0"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Lifecycle state: unloaded, loading, ready, switching.
	// example: ready
	State string `json:"state" example:"ready"`
	// Currently loaded model, if any.
	CurrentModel *Descriptor `json:"current_model,omitempty"`
	// Device the current model is resident on.
	// example: accelerator
	Device string `json:"device,omitempty" example:"accelerator"`
	// Last emitted load progress percentage (0-100).
	// example: 100
	Progress int `json:"progress" example:"100"`
	// Last emitted status message.
	// example: Model ready
	LastStatus string `json:"last_status,omitempty" example:"Model ready"`
	// Last load failure, empty when none.
	LastError string `json:"last_error,omitempty"`
	// Memory budget inputs.
	Budget BudgetStatus `json:"budget"`
	// Accelerator memory usage.
	Memory MemoryStatus `json:"memory"`
	// Most recent benchmark result in tokens per second, 0 before first load.
	// example: 21.5
	TokensPerSecond float64 `json:"tokens_per_second,omitempty" example:"21.5"`
	// Idle eviction threshold in seconds, 0 when disabled.
	// example: 600
	IdleUnloadSeconds int `json:"idle_unload_seconds" example:"600"`
	// Total successful loads since process start.
	// example: 3
	LoadsTotal uint64 `json:"loads_total" example:"3"`
	// Total idle evictions since process start.
	// example: 1
	IdleUnloadsTotal uint64 `json:"idle_unloads_total" example:"1"`
	// Uptime of the daemon in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
}

// GenerateResponse is the buffered (non-streaming) reply of POST /generate.
type GenerateResponse struct {
	// Full completion text.
	Reply string `json:"reply"`
}

// GenerateChunk is one NDJSON line of a streaming POST /generate response.
// Fragment lines carry incremental text; the final line has Done set.
type GenerateChunk struct {
	// Incremental completion text.
	// example: The system
	Fragment string `json:"fragment,omitempty" example:"The system"`
	// True on the terminal line of the stream.
	// example: true
	Done bool `json:"done,omitempty" example:"true"`
}

// ChatResponse is returned by POST /chat. When the coordinator matched a
// maintenance tool it answers from the keyword path without touching the
// model; otherwise Reply carries the generated completion.
type ChatResponse struct {
	// Reply text for the user.
	Reply string `json:"reply"`
	// Matched tool id (sfc, dism, cleanup, smartscan), empty when none.
	// example: sfc
	Tool string `json:"tool,omitempty" example:"sfc"`
	// Match confidence 0.0-1.0.
	// example: 0.85
	Confidence float64 `json:"confidence,omitempty" example:"0.85"`
	// True when the tool run was actually dispatched to the runner.
	Triggered bool `json:"triggered,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found: phi9
	Error string `json:"error" example:"model not found: phi9"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
