// Package tools maps free-text chat to system maintenance intents by keyword
// scoring, so obvious requests skip model inference entirely. Matching is a
// two-step conversation: a scored match asks for confirmation, and the next
// message settles it. Anything below the clarify threshold falls through to
// the caller, which typically answers with a model generation.
package tools

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ToolType identifies a maintenance action the host application can run.
type ToolType string

const (
	ToolSFC       ToolType = "sfc"
	ToolDISM      ToolType = "dism"
	ToolCleanup   ToolType = "cleanup"
	ToolSmartScan ToolType = "smartscan"
	ToolNone      ToolType = ""
)

// Confidence thresholds for the two-step confirmation flow.
const (
	confirmThreshold = 0.7
	clarifyThreshold = 0.4
)

// Match is a scored keyword hit.
type Match struct {
	Tool       ToolType
	Confidence float64
	Reason     string
}

// Reply is what the coordinator says back to the user. Handled is false when
// no tool matched and the message should go to the generation path instead.
type Reply struct {
	Handled   bool
	Text      string
	Match     *Match
	Triggered bool
}

// Runner executes a confirmed tool request. The coordinator never runs
// anything itself; it only announces intent to the injected runner.
type Runner interface {
	Run(tool ToolType) error
}

// NopRunner accepts every request and does nothing. Used when no tool
// execution surface is wired up.
type NopRunner struct{}

func (NopRunner) Run(ToolType) error { return nil }

type pattern struct {
	tool     ToolType
	display  string
	reason   string
	keywords []string
}

// Keyword tables. Multi-word keywords are worth more than single words, so
// "system file checker" outranks a stray "scan".
var patterns = []pattern{
	{
		tool:    ToolSFC,
		display: "System File Checker (SFC)",
		reason:  "This will scan and repair corrupted Windows system files.",
		keywords: []string{
			"sfc", "system file checker", "repair system files", "corrupted files",
			"fix windows files", "scan system", "scannow", "repair windows",
		},
	},
	{
		tool:    ToolDISM,
		display: "DISM Repair",
		reason:  "This will repair the Windows system image using DISM.",
		keywords: []string{
			"dism", "system image", "restore health", "repair image",
			"windows image", "component store", "fix image",
		},
	},
	{
		tool:    ToolCleanup,
		display: "Cleanup Temp Files",
		reason:  "This will remove temporary files and free up disk space.",
		keywords: []string{
			"cleanup", "clean up", "temp files", "temporary files", "clear cache",
			"delete temp", "free space", "disk cleanup", "prefetch", "junk files",
		},
	},
	{
		tool:    ToolSmartScan,
		display: "SmartScan (VirusTotal)",
		reason:  "This will check your files against VirusTotal for threats.",
		keywords: []string{
			"virus", "malware", "virustotal", "scan files", "smartscan",
			"check for virus", "security scan", "infected", "threat",
		},
	},
}

var confirmWords = []string{
	"yes", "y", "yeah", "yep", "sure", "ok", "okay", "go ahead",
	"do it", "run it", "start", "proceed", "please", "affirmative",
}

var rejectWords = []string{
	"no", "n", "nope", "cancel", "stop", "don't", "nevermind", "never mind",
}

// Coordinator holds the pending-confirmation state for one chat session.
// Safe for concurrent use; confirmation state is per-coordinator, so callers
// serving multiple independent sessions should hold one each.
type Coordinator struct {
	mu      sync.Mutex
	pending ToolType
	runner  Runner
	log     zerolog.Logger
}

func New(runner Runner, log zerolog.Logger) *Coordinator {
	if runner == nil {
		runner = NopRunner{}
	}
	return &Coordinator{runner: runner, log: log}
}

// Process inspects one user message. The returned Reply is final when
// Handled; otherwise the caller should produce its own answer.
func (c *Coordinator) Process(input string) Reply {
	lower := strings.ToLower(strings.TrimSpace(input))

	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()

	if pending != ToolNone {
		if containsAny(lower, confirmWords) {
			c.mu.Lock()
			c.pending = ToolNone
			c.mu.Unlock()
			return c.execute(pending)
		}
		if containsAny(lower, rejectWords) {
			c.mu.Lock()
			c.pending = ToolNone
			c.mu.Unlock()
			return Reply{Handled: true, Text: "Okay, I won't run that tool. What else can I help with?"}
		}
		// Neither: drop the pending question and treat the message fresh.
		c.mu.Lock()
		c.pending = ToolNone
		c.mu.Unlock()
	}

	m := bestMatch(lower)
	if m == nil {
		return Reply{}
	}
	p := patternFor(m.Tool)
	switch {
	case m.Confidence >= confirmThreshold:
		c.mu.Lock()
		c.pending = m.Tool
		c.mu.Unlock()
		return Reply{
			Handled: true,
			Text:    "I can run " + p.display + " for you. " + m.Reason + " Would you like me to start it? (yes/no)",
			Match:   m,
		}
	case m.Confidence >= clarifyThreshold:
		c.mu.Lock()
		c.pending = m.Tool
		c.mu.Unlock()
		return Reply{
			Handled: true,
			Text:    "It sounds like you might want to run " + p.display + ". Is that correct? (yes/no)",
			Match:   m,
		}
	}
	return Reply{}
}

// Pending returns the tool awaiting confirmation, ToolNone when idle.
func (c *Coordinator) Pending() ToolType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Coordinator) execute(tool ToolType) Reply {
	p := patternFor(tool)
	if p == nil {
		return Reply{Handled: true, Text: "Sorry, I couldn't identify which tool to run."}
	}
	if err := c.runner.Run(tool); err != nil {
		c.log.Warn().Err(err).Str("tool", string(tool)).Msg("tool runner failed")
		return Reply{Handled: true, Text: "I couldn't start " + p.display + ": " + err.Error()}
	}
	c.log.Info().Str("tool", string(tool)).Msg("tool triggered")
	return Reply{
		Handled:   true,
		Text:      "Starting " + p.display + ". You can monitor progress in the tool window.",
		Match:     &Match{Tool: tool, Confidence: 1.0, Reason: "Executed"},
		Triggered: true,
	}
}

func patternFor(t ToolType) *pattern {
	for i := range patterns {
		if patterns[i].tool == t {
			return &patterns[i]
		}
	}
	return nil
}

// bestMatch scores every tool's keyword list against the text and keeps the
// highest. A keyword of n words scores n*0.3 + 0.7, confidence is the score
// halved and capped at 1.
func bestMatch(text string) *Match {
	var best *Match
	var bestScore float64
	for i := range patterns {
		p := &patterns[i]
		score := 0.0
		for _, kw := range p.keywords {
			if strings.Contains(text, kw) {
				score += float64(len(strings.Fields(kw)))*0.3 + 0.7
			}
		}
		if score > 0 && (best == nil || score > bestScore) {
			conf := score / 2.0
			if conf > 1 {
				conf = 1
			}
			best = &Match{Tool: p.tool, Confidence: conf, Reason: p.reason}
			bestScore = score
		}
	}
	return best
}

// containsAny matches multi-word vocab entries as substrings and single
// words on word boundaries, so "n" or "y" never fire inside longer words.
func containsAny(text string, words []string) bool {
	fields := strings.Fields(text)
	for _, w := range words {
		if strings.Contains(w, " ") {
			if strings.Contains(text, w) {
				return true
			}
			continue
		}
		for _, f := range fields {
			if strings.Trim(f, ".,!?") == w {
				return true
			}
		}
	}
	return false
}
