// Package engine wraps a loaded model and tokenizer pair and turns prompts
// into completions. It applies the descriptor's prompt template, bounds the
// input, and maps accelerator memory exhaustion to a recoverable error. It
// holds no state of its own; the lifecycle manager owns the Loaded handle and
// lends it out per call.
package engine

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// maxPromptTokens bounds the templated input to keep generation-time
	// memory in check.
	maxPromptTokens = 2048

	// Sampling defaults applied when temperature > 0.
	defaultTopP = 0.9
	defaultTopK = 50

	// streamBuffer is the fragment queue capacity between the generation
	// worker and the consumer.
	streamBuffer = 64

	promptPlaceholder = "{prompt}"
)

type Engine struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// LlamaBuilt reports whether this binary carries the in-process llama
// runtime (built with the 'llama' tag).
func LlamaBuilt() bool { return llamaBuilt }

// BuildPrompt applies the descriptor's template and truncates the result to
// the input token budget.
func (e *Engine) BuildPrompt(loaded *Loaded, prompt string) string {
	tpl := loaded.Desc.Template
	var formatted string
	if strings.Contains(tpl, promptPlaceholder) {
		formatted = strings.ReplaceAll(tpl, promptPlaceholder, prompt)
	} else {
		formatted = prompt
	}
	return loaded.Tokenizer.Truncate(formatted, maxPromptTokens)
}

// Options maps the caller's knobs to sampling parameters. temperature <= 0
// selects deterministic greedy decoding; above zero, nucleus sampling with
// top-k filtering.
func (e *Engine) Options(maxNewTokens int, temperature float64) GenerateOptions {
	opts := GenerateOptions{MaxNewTokens: maxNewTokens}
	if temperature > 0 {
		opts.Temperature = temperature
		opts.TopP = defaultTopP
		opts.TopK = defaultTopK
	} else {
		opts.Temperature = 0
		opts.TopP = 1
		opts.TopK = 1
	}
	return opts
}

// Generate runs one blocking completion against the borrowed model. On
// accelerator memory exhaustion the model's caches are dropped before the
// error is returned, so the next call starts clean.
func (e *Engine) Generate(ctx context.Context, loaded *Loaded, prompt string, maxNewTokens int, temperature float64) (string, error) {
	formatted := e.BuildPrompt(loaded, prompt)
	res, err := loaded.Model.Generate(ctx, formatted, e.Options(maxNewTokens, temperature), nil)
	if err != nil {
		if IsOutOfMemory(err) {
			loaded.Model.DropCaches()
			e.log.Warn().Err(err).Str("model", loaded.Desc.ID).Msg("generation hit accelerator memory limit")
		}
		return "", err
	}
	return strings.TrimSpace(res.Content), nil
}

// GenerateStream runs the completion on a worker goroutine and relays text
// fragments through a bounded queue. The fragment channel is closed when the
// stream ends; the error channel delivers at most one terminal error after
// that. Draining the full stream yields the same text Generate would return,
// minus the surrounding whitespace trim.
func (e *Engine) GenerateStream(ctx context.Context, loaded *Loaded, prompt string, maxNewTokens int, temperature float64) (<-chan string, <-chan error) {
	frags := make(chan string, streamBuffer)
	errc := make(chan error, 1)
	formatted := e.BuildPrompt(loaded, prompt)
	opts := e.Options(maxNewTokens, temperature)
	go func() {
		defer close(errc)
		defer close(frags)
		_, err := loaded.Model.Generate(ctx, formatted, opts, func(fragment string) error {
			select {
			case frags <- fragment:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			if IsOutOfMemory(err) {
				loaded.Model.DropCaches()
			}
			errc <- err
		}
	}()
	return frags, errc
}
