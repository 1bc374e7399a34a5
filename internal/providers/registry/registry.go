// Package registry wires the built-in sites into named providers.Source
// values.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/providers/mangascan"
	"github.com/brogergvhs/mangasrc/internal/providers/scanfr"
	"github.com/brogergvhs/mangasrc/internal/providers/site"
)

type Options struct {
	Site site.Options
	// SelectorsDir holds optional <key>.yaml files merged onto the built-in
	// selector maps.
	SelectorsDir string
}

type Descriptor struct {
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
}

type Registry struct {
	mu      sync.RWMutex
	sources map[string]providers.Source
	info    map[string]Descriptor
}

// Builtin returns the configurations of every shipped site.
func Builtin() []site.Config {
	return []site.Config{mangascan.Config(), scanfr.Config()}
}

// New builds a registry holding every built-in site, with selector
// overrides from opts.SelectorsDir applied.
func New(fetcher providers.Fetcher, opts Options) (*Registry, error) {
	overrides, err := LoadOverrides(opts.SelectorsDir)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		sources: map[string]providers.Source{},
		info:    map[string]Descriptor{},
	}

	for _, cfg := range Builtin() {
		if raw, ok := overrides[cfg.Key]; ok {
			merged, err := MergeSelectors(cfg.Selectors, raw)
			if err != nil {
				return nil, fmt.Errorf("selectors override for %s: %w", cfg.Key, err)
			}
			cfg.Selectors = merged
			delete(overrides, cfg.Key)
		}

		c, err := site.New(cfg, fetcher, opts.Site)
		if err != nil {
			return nil, err
		}
		if err := r.Register(c, cfg.BaseURL); err != nil {
			return nil, err
		}
	}

	if len(overrides) > 0 {
		keys := make([]string, 0, len(overrides))
		for k := range overrides {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		return nil, fmt.Errorf("selectors override for %s: %w", strings.Join(keys, ", "), providers.ErrUnknownSource)
	}

	return r, nil
}

func (r *Registry) Register(src providers.Source, baseURL string) error {
	if src == nil {
		return fmt.Errorf("source is nil")
	}

	key := normalizeKey(src.Key())
	if key == "" {
		return fmt.Errorf("source key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[key]; exists {
		return fmt.Errorf("source %q already registered", key)
	}

	r.sources[key] = src
	r.info[key] = Descriptor{Key: key, Name: src.Name(), BaseURL: baseURL}

	return nil
}

func (r *Registry) Get(key string) (providers.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, ok := r.sources[normalizeKey(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", providers.ErrUnknownSource, key)
	}

	return src, nil
}

func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]Descriptor, 0, len(r.info))
	for _, d := range r.info {
		items = append(items, d)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Key < items[j].Key
	})

	return items
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
