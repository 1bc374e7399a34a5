package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brogergvhs/mangasrc/internal/providers/generic"
)

func useTempRoot(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	return filepath.Join(dir, "mangasrc")
}

func TestLoadMergedWithoutProfile(t *testing.T) {
	useTempRoot(t)

	cfg, used, err := LoadMerged(Options{Source: "scanfr", Retries: 5})
	if err != nil {
		t.Fatalf("LoadMerged: %v", err)
	}
	if !strings.Contains(used, "config init") {
		t.Fatalf("used = %q", used)
	}
	if cfg.Source != "scanfr" || cfg.Retries != 5 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.MaxScanPages != 10 || cfg.ScanPolicy != generic.StopOnUntracked {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestInitSwitchAndLoad(t *testing.T) {
	root := useTempRoot(t)

	path, err := InitDefaultConfig()
	if err != nil {
		t.Fatalf("InitDefaultConfig: %v", err)
	}
	if path != filepath.Join(root, "configs", "Default.yaml") {
		t.Fatalf("path = %q", path)
	}
	if _, err := InitDefaultConfig(); !errors.Is(err, os.ErrExist) {
		t.Fatalf("second init: %v", err)
	}

	other, err := CreateEmptyConfig("work")
	if err != nil {
		t.Fatalf("CreateEmptyConfig: %v", err)
	}
	yml := "source: mangascan\nmax_scan_pages: 4\nscan_policy: stop_on_stale\n"
	if err := os.WriteFile(other, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SwitchConfig("work"); err != nil {
		t.Fatalf("SwitchConfig: %v", err)
	}

	cfg, used, err := LoadMerged(Options{MaxScanPages: 2})
	if err != nil {
		t.Fatalf("LoadMerged: %v", err)
	}
	if used != other {
		t.Fatalf("used = %q, want %q", used, other)
	}
	if cfg.Source != "mangascan" || cfg.ScanPolicy != generic.StopOnStale {
		t.Fatalf("profile not loaded: %+v", cfg)
	}
	if cfg.MaxScanPages != 2 {
		t.Fatalf("flag should win, max_scan_pages = %d", cfg.MaxScanPages)
	}
	if cfg.ImageWorkers != 5 || cfg.TimeoutSeconds != 30 {
		t.Fatalf("missing keys should keep defaults: %+v", cfg)
	}

	list, err := ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(list) != 2 || list[0].Label != "Default" || !list[1].Active {
		t.Fatalf("list = %+v", list)
	}
}

func TestLoadMergedRejectsUnknownPolicy(t *testing.T) {
	useTempRoot(t)

	if _, _, err := LoadMerged(Options{IgnoreConfig: true, ScanPolicy: "forever"}); err == nil {
		t.Fatal("expected scan_policy error")
	}
}

func TestRemoveConfig(t *testing.T) {
	useTempRoot(t)

	if _, err := InitDefaultConfig(); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateEmptyConfig("tmp"); err != nil {
		t.Fatal(err)
	}
	if err := SwitchConfig("tmp"); err != nil {
		t.Fatal(err)
	}

	if err := RemoveConfig("tmp", false); err == nil {
		t.Fatal("removing the active config without force should fail")
	}
	if err := RemoveConfig("tmp", true); err != nil {
		t.Fatalf("RemoveConfig: %v", err)
	}

	label, err := CurrentLabel()
	if err != nil || label != "Default" {
		t.Fatalf("active = %q, %v", label, err)
	}
	if err := RemoveConfig("Default", true); err == nil {
		t.Fatal("Default must not be removable")
	}
}

func TestCreateEmptyConfigRejectsPaths(t *testing.T) {
	useTempRoot(t)

	for _, label := range []string{"", "..", "a/b"} {
		if _, err := CreateEmptyConfig(label); err == nil {
			t.Fatalf("label %q accepted", label)
		}
	}
}

func TestProfileLookupErrors(t *testing.T) {
	useTempRoot(t)

	if err := SwitchConfig("missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("switch to a missing profile: %v", err)
	}
	if err := RemoveConfig("missing", true); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("remove a missing profile: %v", err)
	}
	if _, err := ActiveConfigPath(); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("active path before init: %v", err)
	}

	if _, err := CreateEmptyConfig("work"); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateEmptyConfig("work"); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("second create: %v", err)
	}
}
