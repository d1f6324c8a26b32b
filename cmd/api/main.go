package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/daptic/internal/config"
	"github.com/zhouzirui/daptic/internal/handler"
	"github.com/zhouzirui/daptic/internal/handler/widget"
	"github.com/zhouzirui/daptic/internal/model/persona"
	"github.com/zhouzirui/daptic/internal/service/ai"
	"github.com/zhouzirui/daptic/internal/service/chat"
	"github.com/zhouzirui/daptic/internal/service/conversation"
	"github.com/zhouzirui/daptic/internal/service/intent"
	"github.com/zhouzirui/daptic/internal/store"
	"github.com/zhouzirui/daptic/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logFile := telemetry.InitLogger(cfg.Log)
	defer logFile.Close()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry, os.Stdout)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Printf("warning: %v", err)
		}
	}()

	conversations, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to open conversation store: %v", err)
	}
	defer conversations.Close()

	generator := newGenerator(ctx, cfg.LLM)

	personaStore := persona.NewMemoryStore(persona.Seed())
	chatService := chat.NewService(conversations, generator, chat.Options{
		InstructionFile: cfg.Chat.InstructionFile,
		MaxPromptLen:    cfg.Chat.MaxPromptLen,
	})

	var sources widget.Sources
	switch cfg.Widget.ReplySource {
	case config.ReplySourceDirect:
		sources = widget.DirectSources(chatService)
	default:
		sources = widget.BackendSources(cfg.Widget.BackendURL, cfg.Widget.RequestTimeout)
		log.Printf("widget replies from backend %s", cfg.Widget.BackendURL)
	}

	sessionOpts := conversation.Options{
		Timeout: cfg.Widget.RequestTimeout,
		Delay: conversation.Delay{
			Base:      cfg.Widget.TypingBase,
			PerChar:   cfg.Widget.TypingPerChar,
			JitterMax: cfg.Widget.TypingJitter,
		},
	}
	if cfg.Widget.IntentsEnabled {
		sessionOpts.Intents = intent.NewMatcher(intent.DefaultRules(personaStore.Default()))
	}

	router := handler.NewRouter(personaStore, chatService, sources, sessionOpts)

	startServer(ctx, cfg.Server, router)
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	if cfg.Driver == "memory" {
		log.Println("using in-memory conversation store")
		return store.NewMemory(), nil
	}

	db, err := store.OpenSQLite(cfg.Path)
	if err != nil {
		return nil, err
	}
	log.Printf("using sqlite conversation store at %s", cfg.Path)
	return db, nil
}

// newGenerator returns nil when the selected provider is not configured;
// /api/generate then answers 503.
func newGenerator(ctx context.Context, cfg config.LLMConfig) ai.Generator {
	if !cfg.Enabled() {
		log.Printf("%s 凭证未配置，跳过 AI 功能初始化", cfg.Provider)
		return nil
	}

	switch cfg.Provider {
	case config.ProviderArk:
		ark, err := ai.NewArk(ctx, cfg.Ark)
		if err != nil {
			log.Printf("warning: failed to initialize Ark generator: %v", err)
			log.Println("continuing without AI functionality - 请检查 Ark 模型相关环境变量")
			return nil
		}
		log.Println("Ark generator initialized successfully")
		return ark
	default:
		log.Printf("Gemini generator initialized with model %s", cfg.Gemini.Model)
		return ai.NewGemini(cfg.Gemini)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,

		// Websocket handlers watch the request context to close hijacked connections.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	log.Printf("D.A.P.T.I.C. listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
