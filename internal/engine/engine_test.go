package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"novad/pkg/types"
)

// fakeModel records the prompt and options it was called with and replays
// canned fragments.
type fakeModel struct {
	gotPrompt   string
	gotOpts     GenerateOptions
	fragments   []string
	content     string
	err         error
	dropsCaches int
	closed      bool
}

func (m *fakeModel) Generate(ctx context.Context, prompt string, opts GenerateOptions, onFragment func(string) error) (Result, error) {
	m.gotPrompt = prompt
	m.gotOpts = opts
	if m.err != nil {
		return Result{}, m.err
	}
	for _, f := range m.fragments {
		if onFragment != nil {
			if err := onFragment(f); err != nil {
				return Result{}, err
			}
		}
	}
	content := m.content
	if content == "" {
		content = strings.Join(m.fragments, "")
	}
	return Result{Content: content, NewTokens: len(m.fragments)}, nil
}

func (m *fakeModel) DropCaches() { m.dropsCaches++ }
func (m *fakeModel) Close() error {
	m.closed = true
	return nil
}

func testLoaded(model Model) *Loaded {
	return &Loaded{
		Desc: types.Descriptor{
			ID:       "phi3-mini",
			Template: "<|user|>\n{prompt}<|end|>\n<|assistant|>",
		},
		Model:     model,
		Tokenizer: HeuristicTokenizer{},
		Device:    types.DeviceCPU,
		LoadedAt:  time.Now(),
	}
}

func testEngine() *Engine { return New(zerolog.Nop()) }

func TestGenerateAppliesTemplate(t *testing.T) {
	m := &fakeModel{content: "  hello there \n"}
	out, err := testEngine().Generate(context.Background(), testLoaded(m), "hi", 8, 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := "<|user|>\nhi<|end|>\n<|assistant|>"
	if m.gotPrompt != want {
		t.Fatalf("prompt template not applied: %q", m.gotPrompt)
	}
	if out != "hello there" {
		t.Fatalf("expected trimmed output, got %q", out)
	}
}

func TestGenerateGreedyVsSampling(t *testing.T) {
	m := &fakeModel{content: "x"}
	e := testEngine()
	loaded := testLoaded(m)

	if _, err := e.Generate(context.Background(), loaded, "p", 8, 0); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if m.gotOpts.TopK != 1 || m.gotOpts.TopP != 1 || m.gotOpts.Temperature != 0 {
		t.Fatalf("expected greedy options, got %+v", m.gotOpts)
	}

	if _, err := e.Generate(context.Background(), loaded, "p", 8, 0.7); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if m.gotOpts.Temperature != 0.7 || m.gotOpts.TopP != defaultTopP || m.gotOpts.TopK != defaultTopK {
		t.Fatalf("expected sampling options, got %+v", m.gotOpts)
	}
	if m.gotOpts.MaxNewTokens != 8 {
		t.Fatalf("max tokens not forwarded: %+v", m.gotOpts)
	}
}

func TestBuildPromptTruncates(t *testing.T) {
	m := &fakeModel{content: "x"}
	loaded := testLoaded(m)
	loaded.Desc.Template = "{prompt}"
	long := strings.Repeat("a", maxPromptTokens*runesPerToken*2)
	got := testEngine().BuildPrompt(loaded, long)
	if (HeuristicTokenizer{}).Count(got) > maxPromptTokens {
		t.Fatalf("prompt exceeds token budget: %d runes", len(got))
	}
}

func TestBuildPromptWithoutPlaceholder(t *testing.T) {
	loaded := testLoaded(&fakeModel{})
	loaded.Desc.Template = "no placeholder here"
	if got := testEngine().BuildPrompt(loaded, "hi"); got != "hi" {
		t.Fatalf("expected raw prompt passthrough, got %q", got)
	}
}

func TestGenerateOutOfMemoryDropsCaches(t *testing.T) {
	m := &fakeModel{err: OutOfMemory(errors.New("cuda alloc failed"))}
	_, err := testEngine().Generate(context.Background(), testLoaded(m), "p", 8, 0)
	if !IsOutOfMemory(err) {
		t.Fatalf("expected out-of-memory error, got %v", err)
	}
	if m.dropsCaches != 1 {
		t.Fatalf("expected caches dropped once, got %d", m.dropsCaches)
	}
}

func TestGenerateStreamDrainMatchesGenerate(t *testing.T) {
	fragments := []string{"Hel", "lo", " wor", "ld"}
	m := &fakeModel{fragments: fragments}
	frags, errc := testEngine().GenerateStream(context.Background(), testLoaded(m), "p", 8, 0)
	var b strings.Builder
	for f := range frags {
		b.WriteString(f)
	}
	if err := <-errc; err != nil {
		t.Fatalf("stream error: %v", err)
	}
	if b.String() != "Hello world" {
		t.Fatalf("drained %q", b.String())
	}
}

func TestGenerateStreamReportsError(t *testing.T) {
	m := &fakeModel{err: errors.New("boom")}
	frags, errc := testEngine().GenerateStream(context.Background(), testLoaded(m), "p", 8, 0)
	for range frags {
	}
	if err := <-errc; err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestGenerateStreamRespectsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Full fragment buffer would block forever without the ctx escape hatch.
	m := &fakeModel{fragments: make([]string, streamBuffer*2)}
	frags, errc := testEngine().GenerateStream(ctx, testLoaded(m), "p", 8, 0)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-frags:
			if !ok {
				if err := <-errc; err == nil {
					t.Fatalf("expected cancellation error")
				}
				return
			}
		case <-deadline:
			t.Fatalf("stream did not terminate after cancel")
		}
	}
}

func TestHeuristicTokenizer(t *testing.T) {
	tok := HeuristicTokenizer{}
	if got := tok.Count("abcdefgh"); got != 2 {
		t.Fatalf("count=%d want 2", got)
	}
	if got := tok.Count("abc"); got != 1 {
		t.Fatalf("count=%d want 1", got)
	}
	if got := tok.Truncate("abcdefgh", 1); got != "abcd" {
		t.Fatalf("truncate=%q", got)
	}
	if got := tok.Truncate("ab", 1); got != "ab" {
		t.Fatalf("short input should be untouched, got %q", got)
	}
	if got := tok.Truncate("ab", 0); got != "" {
		t.Fatalf("zero budget should empty the prompt, got %q", got)
	}
}
