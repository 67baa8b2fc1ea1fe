package registry

import (
	"os"
	"path/filepath"
	"testing"

	"novad/pkg/types"
)

func TestResolveBuiltin(t *testing.T) {
	r := Default()
	d, err := r.Resolve("phi3-mini")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.Source != "microsoft/Phi-3.5-mini-instruct" {
		t.Fatalf("unexpected source %q", d.Source)
	}
	if d.EstMemoryGB != 3.0 {
		t.Fatalf("unexpected footprint %v", d.EstMemoryGB)
	}
	if d.Template == "" {
		t.Fatalf("expected a template on every builtin")
	}
}

func TestResolveUnknown(t *testing.T) {
	r := Default()
	_, err := r.Resolve("phi9")
	if err == nil {
		t.Fatalf("expected error for unknown id")
	}
	if !IsUnknownModel(err) {
		t.Fatalf("expected IsUnknownModel, got %v", err)
	}
}

func TestAllIDsOrderStable(t *testing.T) {
	r := Default()
	want := []string{"mistral-7b", "phi3-mini", "deepseek-1.5b", "qwen2.5-1.5b"}
	got := r.AllIDs()
	if len(got) != len(want) {
		t.Fatalf("expected %d ids got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("id[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	r := Default()
	out := r.All()
	out[0].ID = "mutated"
	if r.All()[0].ID != "mistral-7b" {
		t.Fatalf("registry mutated via returned slice")
	}
}

func TestNewAppliesDefaultTemplate(t *testing.T) {
	r := New([]types.Descriptor{{ID: "x", Source: "y"}})
	d, err := r.Resolve("x")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.Template != DefaultTemplate {
		t.Fatalf("expected default template, got %q", d.Template)
	}
}

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
	}{
		{"models.yaml", "models:\n  - id: tiny\n    source: local/tiny.gguf\n    est_memory_gb: 0.5\n"},
		{"models.json", `{"models":[{"id":"tiny","source":"local/tiny.gguf","est_memory_gb":0.5}]}`},
		{"models.toml", "[[models]]\nid = \"tiny\"\nsource = \"local/tiny.gguf\"\nest_memory_gb = 0.5\n"},
	}
	for _, tc := range cases {
		p := filepath.Join(dir, tc.name)
		if err := os.WriteFile(p, []byte(tc.content), 0o644); err != nil {
			t.Fatalf("write %s: %v", tc.name, err)
		}
		models, err := LoadFile(p)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(models) != 1 || models[0].ID != "tiny" || models[0].EstMemoryGB != 0.5 {
			t.Fatalf("%s: unexpected models %+v", tc.name, models)
		}
	}
}

func TestLoadFileRejectsUnknownExtension(t *testing.T) {
	p := filepath.Join(t.TempDir(), "models.ini")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(p); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestOverlayReplacesAndAppends(t *testing.T) {
	extra := []types.Descriptor{
		{ID: "phi3-mini", Source: "local/phi3.gguf", EstMemoryGB: 2.5},
		{ID: "tiny", Source: "local/tiny.gguf", EstMemoryGB: 0.5},
	}
	r := Overlay(Builtins(), extra)
	if r.Len() != 5 {
		t.Fatalf("expected 5 entries got %d", r.Len())
	}
	d, err := r.Resolve("phi3-mini")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.Source != "local/phi3.gguf" {
		t.Fatalf("override not applied: %+v", d)
	}
	// replaced entry keeps its original position
	if r.AllIDs()[1] != "phi3-mini" {
		t.Fatalf("order changed by overlay: %v", r.AllIDs())
	}
	if r.AllIDs()[4] != "tiny" {
		t.Fatalf("appended entry not last: %v", r.AllIDs())
	}
}
