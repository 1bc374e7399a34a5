package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brogergvhs/mangasrc/internal/providers/generic"
	"gopkg.in/yaml.v3"
)

// LoadOverrides reads every <key>.yaml / <key>.yml file of dir. A missing or
// empty dir yields no overrides.
func LoadOverrides(dir string) (map[string][]byte, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return map[string][]byte{}, nil
	}

	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]byte{}, nil
		}

		return nil, fmt.Errorf("read selectors dir: %w", err)
	}

	out := map[string][]byte{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		content, err := os.ReadFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		key := normalizeKey(strings.TrimSuffix(name, filepath.Ext(name)))
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("%s: duplicate override for %q", name, key)
		}
		out[key] = content
	}

	return out, nil
}

// MergeSelectors applies a partial YAML selector map onto base. Keys absent
// from raw keep their built-in value; lists and field rules are replaced as
// a whole.
func MergeSelectors(base generic.Selectors, raw []byte) (generic.Selectors, error) {
	b, err := yaml.Marshal(base)
	if err != nil {
		return generic.Selectors{}, fmt.Errorf("encode built-in selectors: %w", err)
	}

	var merged generic.Selectors
	if err := yaml.Unmarshal(b, &merged); err != nil {
		return generic.Selectors{}, fmt.Errorf("copy built-in selectors: %w", err)
	}

	if err := yaml.Unmarshal(raw, &merged); err != nil {
		return generic.Selectors{}, fmt.Errorf("decode override: %w", err)
	}

	return merged, nil
}
