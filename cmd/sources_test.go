package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)

	got, err := parseSince("48h", now)
	if err != nil || !got.Equal(now.Add(-48*time.Hour)) {
		t.Fatalf("duration: %v, %v", got, err)
	}

	got, err = parseSince("2024-06-01", now)
	if err != nil || got.Year() != 2024 || got.Month() != time.June || got.Day() != 1 {
		t.Fatalf("day: %v, %v", got, err)
	}

	got, err = parseSince("2024-06-01T08:00:00Z", now)
	if err != nil || !got.Equal(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339: %v, %v", got, err)
	}

	if _, err := parseSince("last week", now); err == nil {
		t.Fatal("expected error")
	}
}

func TestSourcesCommandListsBuiltins(t *testing.T) {
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"sources", "--ignore-config"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("sources: %v", err)
	}

	got := out.String()
	for _, want := range []string{"key: mangascan", "key: scanfr", "base_url: https://scan-fr.cc"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}
