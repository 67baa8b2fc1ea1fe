package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"novad/internal/budget"
	"novad/internal/config"
	"novad/internal/httpapi"
	"novad/internal/manager"
	"novad/internal/registry"
	"novad/internal/tools"
)

type serveOptions struct {
	addr         string
	configPath   string
	modelsFile   string
	defaultModel string
	forceCPU     bool
	vramGB       float64
	vramLimitGB  float64
	idleSeconds  int
	logLevel     string
	preload      bool
}

func main() {
	root := &cobra.Command{
		Use:           "novad",
		Short:         "Local model lifecycle daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	if err := root.Execute(); err != nil {
		os.Stderr.WriteString("novad: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", envOr("NOVAD_ADDR", ":8090"), "HTTP listen address, e.g. :8090")
	f.StringVar(&opts.configPath, "config", os.Getenv("NOVAD_CONFIG"), "Config file (.toml/.yaml/.json)")
	f.StringVar(&opts.modelsFile, "models-file", "", "Extra model registry file overlaid on the builtins")
	f.StringVar(&opts.defaultModel, "default-model", "", "Default model id when a request omits the model")
	f.BoolVar(&opts.forceCPU, "force-cpu", false, "Run on CPU even when an accelerator is declared")
	f.Float64Var(&opts.vramGB, "vram-gb", 0, "Declared accelerator memory in GB (0 = CPU only)")
	f.Float64Var(&opts.vramLimitGB, "vram-limit-gb", 0, "Ceiling on accelerator memory for model selection (0 = unlimited)")
	f.IntVar(&opts.idleSeconds, "idle-unload-seconds", 0, "Unload an unused model after this many seconds (0 = default, negative = never)")
	f.StringVar(&opts.logLevel, "log-level", envOr("NOVAD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	f.BoolVar(&opts.preload, "preload", false, "Start loading the default model at boot")
	return cmd
}

func serve(cmd *cobra.Command, opts serveOptions) error {
	var fileCfg config.Config
	if opts.configPath != "" {
		var err error
		fileCfg, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
	}
	// Flags given explicitly win over the file; empty flags fall back to it.
	flags := cmd.Flags()
	if !flags.Changed("addr") && fileCfg.Addr != "" {
		opts.addr = fileCfg.Addr
	}
	if opts.modelsFile == "" {
		opts.modelsFile = fileCfg.ModelsFile
	}
	if opts.defaultModel == "" {
		opts.defaultModel = fileCfg.DefaultModel
	}
	if !flags.Changed("force-cpu") {
		opts.forceCPU = fileCfg.ForceCPU
	}
	if opts.vramLimitGB == 0 {
		opts.vramLimitGB = fileCfg.VRAMLimitGB
	}
	if opts.idleSeconds == 0 {
		opts.idleSeconds = fileCfg.IdleUnloadSeconds
	}
	if !flags.Changed("log-level") && fileCfg.LogLevel != "" {
		opts.logLevel = fileCfg.LogLevel
	}

	logger := newLogger(opts.logLevel)

	reg := registry.Default()
	if opts.modelsFile != "" {
		extra, err := registry.LoadFile(opts.modelsFile)
		if err != nil {
			return err
		}
		reg = registry.Overlay(reg.All(), extra)
		logger.Info().Str("file", opts.modelsFile).Int("models", reg.Len()).Msg("registry overlaid")
	}

	var probe budget.Probe = budget.NoAccelerator{}
	if opts.vramGB > 0 {
		probe = budget.StaticProbe{Total: opts.vramGB}
	}

	idle := time.Duration(opts.idleSeconds) * time.Second
	if opts.idleSeconds < 0 {
		idle = -1
	}
	mgr := manager.New(manager.Config{
		Registry:     reg,
		Probe:        probe,
		Logger:       logger,
		DefaultModel: opts.defaultModel,
		ForceCPU:     opts.forceCPU,
		VRAMLimitGB:  opts.vramLimitGB,
		IdleUnload:   idle,
		MaxNewTokens: fileCfg.MaxNewTokens,
		ContextSize:  fileCfg.ContextSize,
		Threads:      fileCfg.Threads,
	})
	var shutdownOnce sync.Once
	shutdown := func() { shutdownOnce.Do(mgr.Shutdown) }
	defer shutdown()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(fileCfg.MaxBodyBytes)
	httpapi.SetGenerateTimeoutSeconds(fileCfg.GenerateTimeoutS)
	httpapi.SetCORSOptions(fileCfg.CORSEnabled, fileCfg.CORSAllowedOrigins, fileCfg.CORSAllowedMethods, fileCfg.CORSAllowedHeaders)

	coord := tools.New(tools.NopRunner{}, logger)
	mux := httpapi.NewMux(mgr, coord)
	srv := &http.Server{Addr: opts.addr, Handler: mux}

	if opts.preload {
		if _, err := mgr.StartLoad(""); err != nil {
			logger.Warn().Err(err).Msg("preload failed to start")
		}
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", opts.addr).Msg("novad listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errc:
		return err
	}

	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	shutdown()
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
