package serverrun

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cfgpkg "github.com/liinahamari/Loggy/internal/config"
	"github.com/liinahamari/Loggy/internal/errs"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

func TestLoadConfigDataDirFallback(t *testing.T) {
	t.Setenv("LOGGY_DATA_DIR", "")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir == "" {
		t.Fatal("Expected DataDir to be set after fallback")
	}
	if !filepath.IsAbs(cfg.DataDir) && !strings.HasPrefix(cfg.DataDir, "./") {
		t.Errorf("Expected DataDir to be absolute or start with ./, got %s", cfg.DataDir)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loggy.yaml")
	if err := os.WriteFile(path, []byte("backend: box\nvolume: 4096\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LOGGY_DATA_DIR", dir)
	t.Setenv("LOGGY_VOLUME", "8192")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != "box" {
		t.Errorf("backend = %s, want box", cfg.Backend)
	}
	if cfg.Volume != 8192 {
		t.Errorf("volume = %d, want env override 8192", cfg.Volume)
	}
	if cfg.DataDir != dir {
		t.Errorf("data dir = %s, want %s", cfg.DataDir, dir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func testConfig(t *testing.T) cfgpkg.Config {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.Server.HTTPAddr = "127.0.0.1:0"
	cfg.Server.GRPCAddr = "127.0.0.1:0"
	return cfg
}

// TestRunIntegration starts both servers on ephemeral ports and stops them
// through context cancellation.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := Run(ctx, Options{
		Config:    testConfig(t),
		Logger:    logpkg.NewNop(),
		FreeSpace: func(string) (int64, error) { return 1 << 40, nil },
	})
	if err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
}

func TestRunRefusesWithoutSpace(t *testing.T) {
	err := Run(context.Background(), Options{
		Config:    testConfig(t),
		Logger:    logpkg.NewNop(),
		FreeSpace: func(string) (int64, error) { return 1, nil },
	})
	if !errors.Is(err, errs.ErrInsufficientSpace) {
		t.Fatalf("Expected ErrInsufficientSpace, got %v", err)
	}
}

func TestRunReportsListenFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.HTTPAddr = "256.0.0.1:bad"
	err := Run(context.Background(), Options{
		Config:    cfg,
		Logger:    logpkg.NewNop(),
		FreeSpace: func(string) (int64, error) { return 1 << 40, nil },
	})
	if err == nil {
		t.Fatal("Expected listen error")
	}
}
