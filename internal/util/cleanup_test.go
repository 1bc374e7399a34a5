package util

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCleanupUnfinishedTempFolders(t *testing.T) {
	out := t.TempDir()
	for _, dir := range []string{"one_piece_ch_1_tmp", "one_piece_ch_2_tmp", "keep"} {
		if err := os.MkdirAll(filepath.Join(out, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(out, "file_tmp"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	if n := CleanupUnfinishedTempFolders(out, &log); n != 2 {
		t.Fatalf("removed %d folders, want 2\n%s", n, log.String())
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("left %d entries, want keep and file_tmp", len(entries))
	}
}

func TestRemoveIfEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	RemoveIfEmpty(dir, &log)
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("empty folder should be removed, stat err = %v", err)
	}
}

func TestCreateCBZ(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"page_002.jpg", "page_001.jpg"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
		files = append(files, p)
	}

	out := filepath.Join(dir, "chapter.cbz")
	if err := CreateCBZ(files, out); err != nil {
		t.Fatalf("CreateCBZ: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	if len(zr.File) != 2 || zr.File[0].Name != "page_001.jpg" || zr.File[1].Name != "page_002.jpg" {
		t.Fatalf("unexpected entries: %v", zr.File)
	}
}
