package telemetry

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/zhouzirui/daptic/internal/config"
)

func TestInitLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daptic.log")
	closer := InitLogger(config.LogConfig{File: path})
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
	})

	log.Printf("[test] hello rotation")
	if err := closer.Close(); err != nil {
		t.Fatalf("close err: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[test] hello rotation") {
		t.Fatalf("expected log line in file, got %q", data)
	}
}

func TestInitDisabledKeepsGlobalProviders(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Init(context.Background(), config.TelemetryConfig{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Init err: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown err: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Fatal("expected tracer provider unchanged")
	}
}

func TestInitExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), config.TelemetryConfig{Enabled: true}, &buf)
	if err != nil {
		t.Fatalf("Init err: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "unit.span")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown err: %v", err)
	}
	if !strings.Contains(buf.String(), "unit.span") {
		t.Fatalf("expected exported span, got %q", buf.String())
	}
}
