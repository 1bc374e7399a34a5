package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

// InterruptContext is cancelled on SIGINT or SIGTERM so running downloads
// stop and their temporary folders can be cleaned up.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// CleanupUnfinishedTempFolders removes every *_tmp folder left in
// outputDir and reports how many were removed.
func CleanupUnfinishedTempFolders(outputDir string, w io.Writer) int {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || !strings.HasSuffix(name, "_tmp") {
			continue
		}

		full := filepath.Join(outputDir, name)
		if err := os.RemoveAll(full); err != nil {
			fmt.Fprintf(w, "Error cleaning up %s: %v\n", full, err)
			continue
		}
		fmt.Fprintf(w, "Removed %s\n", full)
		removed++
	}

	return removed
}

func RemoveIfEmpty(dir string, w io.Writer) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}

	if err := os.Remove(dir); err == nil {
		fmt.Fprintf(w, "Removed empty output folder: %s\n", dir)
	}
}

func CleanupFolder(folder string) {
	_ = os.RemoveAll(folder)
}
