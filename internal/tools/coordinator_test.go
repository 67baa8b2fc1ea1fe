package tools

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type recordingRunner struct {
	runs []ToolType
	err  error
}

func (r *recordingRunner) Run(t ToolType) error {
	r.runs = append(r.runs, t)
	return r.err
}

func TestKeywordMatching(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		tool    ToolType
		minConf float64
	}{
		{"sfc direct", "please run sfc for me", ToolSFC, 0.4},
		{"sfc long phrase", "can you repair system files? sfc scannow maybe", ToolSFC, 0.7},
		{"dism", "restore health of the windows image", ToolDISM, 0.7},
		{"cleanup", "delete temp files and clear cache please", ToolCleanup, 0.7},
		{"smartscan", "i think i have a virus, run a security scan", ToolSmartScan, 0.7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := bestMatch(strings.ToLower(tc.input))
			if m == nil {
				t.Fatalf("no match for %q", tc.input)
			}
			if m.Tool != tc.tool {
				t.Fatalf("matched %q, want %q", m.Tool, tc.tool)
			}
			if m.Confidence < tc.minConf {
				t.Fatalf("confidence = %v, want >= %v", m.Confidence, tc.minConf)
			}
		})
	}
}

func TestNoMatchFallsThrough(t *testing.T) {
	c := New(nil, zerolog.Nop())
	r := c.Process("what's the weather like today?")
	if r.Handled {
		t.Fatalf("ordinary chat was intercepted: %+v", r)
	}
}

func TestMultiWordKeywordsOutweighSingle(t *testing.T) {
	// One three-word keyword (1.6) beats one single-word keyword (1.0).
	long := bestMatch("system file checker")
	short := bestMatch("sfc")
	if long == nil || short == nil {
		t.Fatal("expected matches for both phrasings")
	}
	if long.Confidence <= short.Confidence {
		t.Fatalf("long phrase confidence %v not above single word %v", long.Confidence, short.Confidence)
	}
}

func TestConfidenceCappedAtOne(t *testing.T) {
	m := bestMatch("sfc scannow repair windows repair system files corrupted files")
	if m == nil {
		t.Fatal("no match")
	}
	if m.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want capped at 1.0", m.Confidence)
	}
}

func TestConfirmationFlow(t *testing.T) {
	runner := &recordingRunner{}
	c := New(runner, zerolog.Nop())

	r := c.Process("please repair system files, something is corrupted")
	if !r.Handled || !strings.Contains(r.Text, "(yes/no)") {
		t.Fatalf("expected a confirmation prompt, got %+v", r)
	}
	if c.Pending() != ToolSFC {
		t.Fatalf("pending = %q, want sfc", c.Pending())
	}

	r = c.Process("yes please")
	if !r.Handled || !r.Triggered {
		t.Fatalf("expected execution after yes, got %+v", r)
	}
	if len(runner.runs) != 1 || runner.runs[0] != ToolSFC {
		t.Fatalf("runner calls = %v", runner.runs)
	}
	if c.Pending() != ToolNone {
		t.Fatal("pending not cleared after execution")
	}
}

func TestRejectionClearsPending(t *testing.T) {
	runner := &recordingRunner{}
	c := New(runner, zerolog.Nop())

	c.Process("run disk cleanup")
	if c.Pending() != ToolCleanup {
		t.Fatalf("pending = %q, want cleanup", c.Pending())
	}
	r := c.Process("no, nevermind")
	if !r.Handled || r.Triggered {
		t.Fatalf("expected a polite decline, got %+v", r)
	}
	if len(runner.runs) != 0 {
		t.Fatalf("runner ran despite rejection: %v", runner.runs)
	}
	if c.Pending() != ToolNone {
		t.Fatal("pending not cleared after rejection")
	}
}

func TestUnrelatedReplyDropsPending(t *testing.T) {
	c := New(nil, zerolog.Nop())
	c.Process("run disk cleanup")
	r := c.Process("actually, tell me about RAM upgrades")
	if r.Handled {
		t.Fatalf("unrelated follow-up was intercepted: %+v", r)
	}
	if c.Pending() != ToolNone {
		t.Fatal("stale pending confirmation survived an unrelated message")
	}
}

func TestShortConfirmWordsNeedBoundaries(t *testing.T) {
	c := New(&recordingRunner{}, zerolog.Nop())
	c.Process("run disk cleanup")
	// "anyway" contains the letter y; it must not count as a yes.
	r := c.Process("anyway")
	if r.Triggered {
		t.Fatalf("substring of a longer word confirmed the tool: %+v", r)
	}
}

func TestRunnerErrorSurfaced(t *testing.T) {
	runner := &recordingRunner{err: errors.New("tool window unavailable")}
	c := New(runner, zerolog.Nop())
	c.Process("run disk cleanup")
	r := c.Process("yes")
	if !r.Handled || r.Triggered {
		t.Fatalf("expected failure reply, got %+v", r)
	}
	if !strings.Contains(r.Text, "tool window unavailable") {
		t.Fatalf("runner error not surfaced: %q", r.Text)
	}
}

func TestNopRunnerAcceptsEverything(t *testing.T) {
	c := New(NopRunner{}, zerolog.Nop())
	c.Process("scan for malware please")
	r := c.Process("go ahead")
	if !r.Triggered {
		t.Fatalf("nop runner should accept, got %+v", r)
	}
}
