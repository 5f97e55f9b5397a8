package config

import (
	"os"
	"path/filepath"
	"testing"

	"microstruct/pkg/acquisition"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Scheme.MinShellDistance != 50 {
		t.Errorf("default min shell distance = %g s/mm^2, want 50", cfg.Scheme.MinShellDistance)
	}
	if cfg.Scheme.B0Threshold != 10 {
		t.Errorf("default b0 threshold = %g s/mm^2, want 10", cfg.Scheme.B0Threshold)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("default config options: %v", err)
	}
	if opts.MinShellDistance != acquisition.DefaultMinShellDistance {
		t.Errorf("options min shell distance = %g, want %g",
			opts.MinShellDistance, float64(acquisition.DefaultMinShellDistance))
	}
	if err := opts.OrderTable.Validate(); err != nil {
		t.Errorf("default order table invalid: %v", err)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Scheme.B0Threshold != 10 {
		t.Errorf("expected defaults for missing file, got b0 threshold %g", cfg.Scheme.B0Threshold)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Scheme.MinShellDistance = 25
	cfg.Scheme.B0Threshold = 5
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Scheme.MinShellDistance != 25 || loaded.Scheme.B0Threshold != 5 {
		t.Errorf("loaded scheme params = %+v, want 25/5", loaded.Scheme)
	}

	opts, err := loaded.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.MinShellDistance != 25e6 {
		t.Errorf("options min shell distance = %g, want 25e6", opts.MinShellDistance)
	}
	if opts.B0Threshold != 5e6 {
		t.Errorf("options b0 threshold = %g, want 5e6", opts.B0Threshold)
	}
}

func TestSHOrderOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SHOrders.Breakpoints = []float64{500, 1500}
	cfg.SHOrders.Orders = []int{2, 4, 6}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	// The missing +Inf breakpoint is appended for the trailing order.
	if got := opts.OrderTable.OrderForBvalue(200e6); got != 2 {
		t.Errorf("order for 200 s/mm^2 = %d, want 2", got)
	}
	if got := opts.OrderTable.OrderForBvalue(1000e6); got != 4 {
		t.Errorf("order for 1000 s/mm^2 = %d, want 4", got)
	}
	if got := opts.OrderTable.OrderForBvalue(3000e6); got != 6 {
		t.Errorf("order for 3000 s/mm^2 = %d, want 6", got)
	}
}

func TestInvalidSHOrderOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SHOrders.Breakpoints = []float64{1500, 500}
	cfg.SHOrders.Orders = []int{2, 4}
	if _, err := cfg.Options(); err == nil {
		t.Error("expected error for non-increasing breakpoints")
	}
}

func TestLoadConfigRejectsInvalidTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "shOrders:\n  breakpoints: [1500, 500]\n  orders: [2, 4]\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error loading config with invalid SH order table")
	}
}
