package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	cfgpkg "github.com/liinahamari/Loggy/internal/config"
	"github.com/liinahamari/Loggy/internal/errs"
	"github.com/liinahamari/Loggy/internal/query"
)

func testConfig(t *testing.T, backend string) cfgpkg.Config {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.Backend = backend
	cfg.Box.Fsync = "never"
	return cfg
}

func plentyOfSpace(string) (int64, error) { return 1 << 40, nil }

func TestOpenCloseHealth(t *testing.T) {
	for _, backend := range []string{"tape", "box"} {
		t.Run(backend, func(t *testing.T) {
			rt, err := Open(Options{Config: testConfig(t, backend), FreeSpace: plentyOfSpace})
			if err != nil {
				t.Fatalf("open runtime: %v", err)
			}
			if err := rt.CheckHealth(context.Background()); err != nil {
				t.Fatalf("health: %v", err)
			}
			if err := rt.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
			if err := rt.CheckHealth(context.Background()); !errors.Is(err, errs.ErrClosed) {
				t.Fatalf("health after close: %v", err)
			}
			if err := rt.Close(); err != nil {
				t.Fatalf("second close: %v", err)
			}
		})
	}
}

func TestRecordReadExport(t *testing.T) {
	for _, backend := range []string{"tape", "box"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			cfg.IntegratorEmail = "dev@example.com"
			rt, err := Open(Options{Config: cfg, FreeSpace: plentyOfSpace})
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer rt.Close()

			rt.Recorder().Info("hello")
			rt.Recorder().Error("failed", errors.New("boom"))
			if err := rt.Recorder().Flush(context.Background()); err != nil {
				t.Fatalf("flush: %v", err)
			}

			res := rt.Query().Page(context.Background(), query.Request{Filters: query.OnlyErrors})
			if res.Status != query.Success || len(res.Entries) != 1 {
				t.Fatalf("page: %v %d", res.Status, len(res.Entries))
			}

			var last query.Status
			for r := range rt.Exporter().Zip(context.Background(), nil) {
				last = r.Status
			}
			if last != query.Success {
				t.Fatalf("export: %v", last)
			}
			if _, err := os.Stat(filepath.Join(cfg.DataDir, "export", "SharedLogs", "logs.zip")); err != nil {
				t.Fatalf("archive missing: %v", err)
			}

			info := rt.Info(context.Background())
			if info.Backend != backend || info.IntegratorEmail != "dev@example.com" || info.SizeBytes <= 0 {
				t.Fatalf("info: %+v", info)
			}
		})
	}
}

func TestInsufficientSpace(t *testing.T) {
	cfg := testConfig(t, "tape")
	_, err := Open(Options{Config: cfg, FreeSpace: func(string) (int64, error) { return cfg.Volume, nil }})
	if !errors.Is(err, errs.ErrInsufficientSpace) {
		t.Fatalf("expected ErrInsufficientSpace, got %v", err)
	}
}

func TestFreeSpaceProbeFailureIsNotFatal(t *testing.T) {
	rt, err := Open(Options{
		Config:    testConfig(t, "tape"),
		FreeSpace: func(string) (int64, error) { return 0, errors.New("statfs unsupported") },
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = rt.Close()
}

func TestUserIDGeneratedWhenEmpty(t *testing.T) {
	cfg := testConfig(t, "tape")
	rt, err := Open(Options{Config: cfg, FreeSpace: plentyOfSpace})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()
	if rt.Identifiers().UserID == "" {
		t.Fatalf("expected generated user id")
	}

	cfg2 := testConfig(t, "tape")
	cfg2.UserID = "u-42"
	rt2, err := Open(Options{Config: cfg2, FreeSpace: plentyOfSpace})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt2.Close()
	if rt2.Identifiers().UserID != "u-42" {
		t.Fatalf("configured user id must be kept")
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	if _, err := Open(Options{Config: cfg, FreeSpace: plentyOfSpace}); !errors.Is(err, errs.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestRealFreeSpaceProbe(t *testing.T) {
	free, err := freeSpace(t.TempDir())
	if err != nil {
		t.Skipf("free space probe unavailable: %v", err)
	}
	if free <= 0 {
		t.Fatalf("expected positive free space, got %d", free)
	}
}
