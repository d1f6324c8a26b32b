package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LLM_PROVIDER", "GOOGLE_API_KEY", "STORE", "REPLY_SOURCE", "BACKEND_URL", "MAX_PROMPT_LEN", "TYPING_BASE_MS", "INTENTS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":3000" {
		t.Fatalf("expected addr :3000, got %s", cfg.Server.Addr)
	}
	if cfg.LLM.Provider != ProviderGemini {
		t.Fatalf("expected gemini provider, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Enabled() {
		t.Fatal("expected provider disabled without key")
	}
	if cfg.Chat.MaxPromptLen != 2000 {
		t.Fatalf("expected max prompt len 2000, got %d", cfg.Chat.MaxPromptLen)
	}
	if cfg.Widget.BackendURL != "http://localhost:3000" {
		t.Fatalf("unexpected backend url %s", cfg.Widget.BackendURL)
	}
	if cfg.Widget.TypingBase != 600*time.Millisecond || cfg.Widget.TypingPerChar != 10*time.Millisecond || cfg.Widget.TypingJitter != 300*time.Millisecond {
		t.Fatalf("unexpected typing delay config %+v", cfg.Widget)
	}
	if !cfg.Widget.IntentsEnabled {
		t.Fatal("expected intents enabled by default")
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.Path != "daptic.db" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("GOOGLE_API_KEY", "secret")
	t.Setenv("REPLY_SOURCE", "direct")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("TYPING_JITTER_MS", "0")
	t.Setenv("STORE", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %s", cfg.Server.Addr)
	}
	if cfg.Widget.BackendURL != "http://127.0.0.1:9000" {
		t.Fatalf("unexpected backend url %s", cfg.Widget.BackendURL)
	}
	if !cfg.LLM.Enabled() {
		t.Fatal("expected gemini enabled with key")
	}
	if cfg.Widget.ReplySource != ReplySourceDirect {
		t.Fatalf("expected direct reply source, got %s", cfg.Widget.ReplySource)
	}
	if cfg.Widget.RequestTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.Widget.RequestTimeout)
	}
	if cfg.Widget.TypingJitter != 0 {
		t.Fatalf("expected zero jitter, got %s", cfg.Widget.TypingJitter)
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("expected memory store, got %s", cfg.Store.Driver)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":            "80 80",
		"LLM_PROVIDER":    "openai",
		"REPLY_SOURCE":    "carrier-pigeon",
		"TYPING_BASE_MS":  "-1",
		"MAX_PROMPT_LEN":  "abc",
		"INTENTS_ENABLED": "maybe",
		"STORE":           "postgres",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
