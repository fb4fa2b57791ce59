package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-med-tracker/internal/config"
)

// stubOTel counts tracer shutdowns for the duration of a test.
func stubOTel(t *testing.T) *int {
	t.Helper()
	var calls int
	prev := setupOTel
	t.Cleanup(func() { setupOTel = prev })
	setupOTel = func(context.Context, config.OTELConfig, string) (func(context.Context) error, error) {
		return func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("otel shutdown called without a deadline")
			}
			calls++
			return nil
		}, nil
	}
	return &calls
}

func TestRun_FlushesTracesOnEveryExit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	cases := []struct {
		name string
		cfg  config.Config
	}{
		{"db open fails", config.Config{
			DBPath:   filepath.Join(dir, "missing", "meds.db"),
			Location: time.UTC,
		}},
		{"reference data missing", config.Config{
			DBPath:        filepath.Join(dir, "ref.db"),
			ReferencePath: filepath.Join(dir, "nope.json"),
			Location:      time.UTC,
		}},
		{"listen fails", config.Config{
			Port:     "-1",
			DBPath:   filepath.Join(dir, "listen.db"),
			Location: time.UTC,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := stubOTel(t)
			if err := run(context.Background(), tc.cfg); err == nil {
				t.Fatalf("expected run to fail")
			}
			if *calls != 1 {
				t.Fatalf("otel shutdown calls = %d; want 1", *calls)
			}
		})
	}
}

func TestRun_GracefulShutdownFlushesOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calls := stubOTel(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	cfg := config.Config{Port: "0", DBPath: filepath.Join(t.TempDir(), "ok.db"), Location: time.UTC}
	if err := run(ctx, cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	if *calls != 1 {
		t.Fatalf("otel shutdown calls = %d; want 1", *calls)
	}
}
