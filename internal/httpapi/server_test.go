package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"novad/internal/manager"
	"novad/internal/registry"
	"novad/internal/tools"
	"novad/pkg/types"
)

// fakeService scripts the manager surface without any real model machinery.
type fakeService struct {
	ready     bool
	loadErr   error
	switchErr error
	loadedID  string
	reply     string
	frags     []string
}

func (f *fakeService) ListModels() []types.Descriptor { return registry.Builtins() }
func (f *fakeService) DefaultModel() string           { return "phi3-mini" }
func (f *fakeService) Status() types.StatusResponse {
	return types.StatusResponse{State: "ready", Progress: 100}
}
func (f *fakeService) MemoryUsage() types.MemoryStatus {
	return types.MemoryStatus{UsedGB: 2, TotalGB: 8}
}
func (f *fakeService) StartLoad(id string) (string, error) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	f.loadedID = id
	return "op-1", nil
}
func (f *fakeService) SwitchModel(id string) (string, error) {
	if f.switchErr != nil {
		return "", f.switchErr
	}
	f.loadedID = id
	return "op-2", nil
}
func (f *fakeService) Generate(ctx context.Context, prompt string, maxNewTokens int, temperature float64) string {
	if f.reply == "" {
		return "generated reply"
	}
	return f.reply
}
func (f *fakeService) GenerateStream(ctx context.Context, prompt string, maxNewTokens int, temperature float64) <-chan string {
	out := make(chan string, len(f.frags)+1)
	for _, fr := range f.frags {
		out <- fr
	}
	close(out)
	return out
}
func (f *fakeService) Ready() bool { return f.ready }

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func getPath(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestModelsEndpoint(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	rr := getPath(t, h, "/models")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp types.ModelsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Models) == 0 || resp.Default != "phi3-mini" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestStatusAndMemoryEndpoints(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	rr := getPath(t, h, "/status")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"state":"ready"`) {
		t.Fatalf("status: %d %s", rr.Code, rr.Body.String())
	}
	rr = getPath(t, h, "/memory")
	var mem types.MemoryStatus
	if err := json.Unmarshal(rr.Body.Bytes(), &mem); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mem.UsedGB != 2 || mem.TotalGB != 8 {
		t.Fatalf("memory = %+v", mem)
	}
}

func TestLoadAcknowledgesWithOpID(t *testing.T) {
	svc := &fakeService{}
	h := NewMux(svc, nil)
	rr := postJSON(t, h, "/load", `{"model":"phi3-mini"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	var resp types.OpResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.OpID != "op-1" || !strings.Contains(resp.Status, "phi3-mini") {
		t.Fatalf("response = %+v", resp)
	}
	if svc.loadedID != "phi3-mini" {
		t.Fatalf("service got id %q", svc.loadedID)
	}
}

func TestLoadDefaultModelAllowed(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	rr := postJSON(t, h, "/load", `{}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSwitchRequiresModel(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	rr := postJSON(t, h, "/switch", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown model", registry.ErrUnknownModel("phi9"), http.StatusNotFound},
		{"busy", manager.ErrBusy("mistral-7b"), http.StatusConflict},
		{"closed", manager.ErrClosed(), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewMux(&fakeService{switchErr: tc.err}, nil)
			rr := postJSON(t, h, "/switch", `{"model":"mistral-7b"}`)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.want, rr.Body.String())
			}
			var er types.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &er); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if er.Code != tc.want || er.Error == "" {
				t.Fatalf("error payload = %+v", er)
			}
		})
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	rr := postJSON(t, h, "/generate", `{"prompt":"  "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestGenerateRejectsWrongContentType(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"prompt":"x"}`))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rr.Code)
	}
}

func TestGenerateBuffered(t *testing.T) {
	h := NewMux(&fakeService{reply: "all clear"}, nil)
	rr := postJSON(t, h, "/generate", `{"prompt":"how is my disk?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp types.GenerateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "all clear" {
		t.Fatalf("reply = %q", resp.Reply)
	}
}

func TestGenerateStreamNDJSON(t *testing.T) {
	h := NewMux(&fakeService{frags: []string{"all ", "clear"}}, nil)
	rr := postJSON(t, h, "/generate", `{"prompt":"how is my disk?","stream":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Fatalf("content type = %q", ct)
	}
	var text strings.Builder
	sawDone := false
	sc := bufio.NewScanner(bytes.NewReader(rr.Body.Bytes()))
	for sc.Scan() {
		var chunk types.GenerateChunk
		if err := json.Unmarshal(sc.Bytes(), &chunk); err != nil {
			t.Fatalf("bad NDJSON line %q: %v", sc.Text(), err)
		}
		if chunk.Done {
			sawDone = true
			continue
		}
		text.WriteString(chunk.Fragment)
	}
	if text.String() != "all clear" {
		t.Fatalf("streamed text = %q", text.String())
	}
	if !sawDone {
		t.Fatal("no terminal done line")
	}
}

func TestChatToolInterception(t *testing.T) {
	coord := tools.New(tools.NopRunner{}, zerolog.Nop())
	h := NewMux(&fakeService{reply: "model answer"}, coord)

	rr := postJSON(t, h, "/chat", `{"prompt":"please repair system files, they look corrupted"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp types.ChatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Tool != "sfc" || !strings.Contains(resp.Reply, "(yes/no)") {
		t.Fatalf("response = %+v", resp)
	}

	// Confirm; the tool fires without touching the model.
	rr = postJSON(t, h, "/chat", `{"prompt":"yes"}`)
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Triggered {
		t.Fatalf("tool not triggered: %+v", resp)
	}
}

func TestChatFallsThroughToGeneration(t *testing.T) {
	coord := tools.New(tools.NopRunner{}, zerolog.Nop())
	h := NewMux(&fakeService{reply: "model answer"}, coord)
	rr := postJSON(t, h, "/chat", `{"prompt":"tell me about RAM upgrades"}`)
	var resp types.ChatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "model answer" || resp.Tool != "" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	svc := &fakeService{}
	h := NewMux(svc, nil)
	if rr := getPath(t, h, "/healthz"); rr.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rr.Code)
	}
	if rr := getPath(t, h, "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz while unloaded = %d, want 503", rr.Code)
	}
	svc.ready = true
	if rr := getPath(t, h, "/readyz"); rr.Code != http.StatusOK {
		t.Fatalf("readyz when ready = %d", rr.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	// Prime the request counter so the metric family exists to scrape.
	getPath(t, h, "/healthz")
	rr := getPath(t, h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "novad_http_requests_total") {
		t.Fatal("http request counter not exported")
	}
}

func TestBodySizeLimit(t *testing.T) {
	SetMaxBodyBytes(64)
	defer SetMaxBodyBytes(0)
	h := NewMux(&fakeService{}, nil)
	big := `{"prompt":"` + strings.Repeat("x", 256) + `"}`
	rr := postJSON(t, h, "/generate", big)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("oversized body = %d, want 400", rr.Code)
	}
}

func TestCORSOptIn(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("CORS headers present without opt-in: %q", got)
	}

	SetCORSOptions(true, []string{"http://localhost:5173"}, []string{"GET", "POST"}, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)
	h = NewMux(&fakeService{}, nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestNosniffHeader(t *testing.T) {
	h := NewMux(&fakeService{}, nil)
	rr := getPath(t, h, "/status")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
}
