package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/providers/generic"
	"github.com/brogergvhs/mangasrc/internal/providers/mangascan"
	"github.com/brogergvhs/mangasrc/internal/providers/site"
)

var noFetch = providers.FetcherFunc(func(context.Context, providers.Request) ([]byte, error) {
	return nil, errors.New("offline")
})

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestNewRegistersBuiltinSources(t *testing.T) {
	r, err := New(noFetch, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(list))
	}
	if list[0].Key != "mangascan" || list[1].Key != "scanfr" {
		t.Fatalf("expected sorted keys mangascan,scanfr got %s,%s", list[0].Key, list[1].Key)
	}
	if list[1].BaseURL != "https://scan-fr.cc" {
		t.Fatalf("unexpected base url %s", list[1].BaseURL)
	}

	src, err := r.Get(" ScanFR ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if src.Name() != "ScanFR" {
		t.Fatalf("unexpected source %s", src.Name())
	}

	if _, err := r.Get("mangadex"); !errors.Is(err, providers.ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r, err := New(noFetch, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	dup, err := mangascan.New(noFetch, site.Options{})
	if err != nil {
		t.Fatalf("mangascan: %v", err)
	}
	if err := r.Register(dup, mangascan.BaseURL); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "MangaScan.yaml", "pages:\n  attrs: [data-lazy-src, data-src]\n")
	writeFile(t, dir, "scanfr.yml", "details:\n  title: h1\n")
	writeFile(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := LoadOverrides(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(got))
	}
	if _, ok := got["mangascan"]; !ok {
		t.Fatalf("expected keys to be normalized, got %v", got)
	}

	missing, err := LoadOverrides(filepath.Join(dir, "absent"))
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected no overrides for a missing dir, got %v %v", missing, err)
	}
}

func TestMergeSelectorsKeepsUntouchedKeys(t *testing.T) {
	base := mangascan.Selectors()

	merged, err := MergeSelectors(base, []byte("pages:\n  attrs: [data-lazy-src]\ndetails:\n  status:\n    default: ongoing\n"))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(merged.Pages.Attrs) != 1 || merged.Pages.Attrs[0] != "data-lazy-src" {
		t.Fatalf("expected attrs to be replaced, got %v", merged.Pages.Attrs)
	}
	if merged.Pages.Image != base.Pages.Image {
		t.Fatalf("expected image selector to be kept, got %q", merged.Pages.Image)
	}
	if merged.Details.Status.Default != model.StatusOngoing {
		t.Fatalf("expected status default override, got %s", merged.Details.Status.Default)
	}
	if len(merged.Details.Status.Map) != 2 {
		t.Fatalf("expected status map to be kept, got %+v", merged.Details.Status.Map)
	}
	if merged.Details.Fields[generic.FieldTags].Split != "\n" {
		t.Fatalf("expected tag split to survive the copy, got %q", merged.Details.Fields[generic.FieldTags].Split)
	}
	if merged.Home[2].Tiles.Subtitle.Prefix != base.Home[2].Tiles.Subtitle.Prefix {
		t.Fatalf("expected home blocks to be kept")
	}

	if base.Pages.Attrs[0] != "data-src" {
		t.Fatalf("merge must not touch the built-in map, got %v", base.Pages.Attrs)
	}
}

func TestNewAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scanfr.yaml", "details:\n  title: h1.title\n")

	var seen []string
	fetch := providers.FetcherFunc(func(_ context.Context, req providers.Request) ([]byte, error) {
		seen = append(seen, req.URL)
		return []byte(`<h1 class="title">Berserk</h1><h2 class="widget-title">Stale</h2>`), nil
	})

	r, err := New(fetch, Options{SelectorsDir: dir})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	src, err := r.Get("scanfr")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	manga, err := src.MangaDetails(context.Background(), "berserk")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if manga.Title() != "Berserk" {
		t.Fatalf("expected the override title selector, got %q (fetched %v)", manga.Title(), seen)
	}
}

func TestNewRejectsUnknownOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mangadex.yaml", "details:\n  title: h1\n")

	if _, err := New(noFetch, Options{SelectorsDir: dir}); !errors.Is(err, providers.ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}

func TestNewRejectsBrokenOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mangascan.yaml", "pages:\n  attrs: []\n")

	if _, err := New(noFetch, Options{SelectorsDir: dir}); err == nil {
		t.Fatal("expected an override removing page attributes to fail validation")
	}
}
