package httpapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"novad/internal/tools"
	"novad/pkg/types"
)

// Service defines the manager surface required by the HTTP API layer.
type Service interface {
	ListModels() []types.Descriptor
	DefaultModel() string
	Status() types.StatusResponse
	MemoryUsage() types.MemoryStatus
	StartLoad(id string) (string, error)
	SwitchModel(id string) (string, error)
	Generate(ctx context.Context, prompt string, maxNewTokens int, temperature float64) string
	GenerateStream(ctx context.Context, prompt string, maxNewTokens int, temperature float64) <-chan string
	Ready() bool
}

// NewMux builds the full router. coord may be nil, in which case /chat
// behaves like a buffered /generate.
func NewMux(svc Service, coord *tools.Coordinator) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ModelsResponse{
			Models:  svc.ListModels(),
			Default: svc.DefaultModel(),
		})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Get("/memory", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.MemoryUsage())
	})

	r.Post("/load", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoadRequest
		if !decodeBody(w, r, &req) {
			return
		}
		handleOp(w, req.Model, "Loading", svc.StartLoad)
	})

	r.Post("/switch", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoadRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Model) == "" {
			writeJSONError(w, http.StatusBadRequest, "model is required")
			return
		}
		handleOp(w, req.Model, "Switching to", svc.SwitchModel)
	})

	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		var req types.GenerateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}
		handleGenerate(w, r, svc, req)
	})

	r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
		var req types.GenerateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}
		handleChat(w, r, svc, coord, req)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeBody enforces the content type and size limit, then decodes into v.
// Writes the error response itself and returns false when the body is bad.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Oversized bodies also land here; a plain 400 avoids leaking limits.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// handleOp runs a load/switch style operation and writes the acknowledgement.
func handleOp(w http.ResponseWriter, model, verb string, op func(string) (string, error)) {
	opID, err := op(model)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusConflict {
			IncrementRejection("busy")
		}
		writeJSONError(w, status, err.Error())
		return
	}
	ack := "Already using the requested model."
	if opID != "" {
		target := model
		if target == "" {
			target = "default model"
		}
		ack = verb + " " + target + "..."
	}
	writeJSON(w, types.OpResponse{OpID: opID, Status: ack})
}

func handleGenerate(w http.ResponseWriter, r *http.Request, svc Service, req types.GenerateRequest) {
	start := time.Now()
	lvl := requestLogLevel(r)
	if lvl >= LevelInfo {
		logGenerate(r, "generate start", 0, 0)
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if generateTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(generateTimeout)*time.Second)
		defer tcancel()
	}

	if !req.Stream {
		reply := svc.Generate(ctx, req.Prompt, req.MaxNewTokens, req.Temperature)
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		writeJSON(w, types.GenerateResponse{Reply: reply})
		if lvl >= LevelInfo {
			logGenerate(r, "generate end", http.StatusOK, time.Since(start))
		}
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	var flush func()
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}
	writer := io.Writer(w)
	if lvl >= LevelDebug {
		writer = io.MultiWriter(w, &loggingLineWriter{})
	}
	enc := json.NewEncoder(writer)
	for frag := range svc.GenerateStream(ctx, req.Prompt, req.MaxNewTokens, req.Temperature) {
		if err := enc.Encode(types.GenerateChunk{Fragment: frag}); err != nil {
			return
		}
		if flush != nil {
			flush()
		}
	}
	if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
		return
	}
	_ = enc.Encode(types.GenerateChunk{Done: true})
	if flush != nil {
		flush()
	}
	if lvl >= LevelInfo {
		logGenerate(r, "generate end", http.StatusOK, time.Since(start))
	}
}

func handleChat(w http.ResponseWriter, r *http.Request, svc Service, coord *tools.Coordinator, req types.GenerateRequest) {
	if coord != nil {
		if reply := coord.Process(req.Prompt); reply.Handled {
			resp := types.ChatResponse{Reply: reply.Text, Triggered: reply.Triggered}
			if reply.Match != nil {
				resp.Tool = string(reply.Match.Tool)
				resp.Confidence = reply.Match.Confidence
			}
			writeJSON(w, resp)
			return
		}
	}
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if generateTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(generateTimeout)*time.Second)
		defer tcancel()
	}
	reply := svc.Generate(ctx, req.Prompt, req.MaxNewTokens, req.Temperature)
	if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
		return
	}
	writeJSON(w, types.ChatResponse{Reply: reply})
}

func logGenerate(r *http.Request, msg string, status int, dur time.Duration) {
	if zlog == nil {
		return
	}
	z := zlog.Info().Str("path", r.URL.Path)
	if status != 0 {
		z = z.Int("status", status).Dur("dur", dur)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg(msg)
}
