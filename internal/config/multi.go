package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultLabel names the profile created by InitDefaultConfig. It cannot be
// removed and is the fallback when the active profile is force-removed.
const DefaultLabel = "Default"

const profileExt = ".yaml"

var ErrNoConfig = errors.New("no config selected")

// ConfigRoot is the per-user directory holding the profiles and the marker
// naming the active one. APPDATA wins over XDG_CONFIG_HOME, which wins over
// ~/.config.
func ConfigRoot() string {
	base := cmp.Or(os.Getenv("APPDATA"), os.Getenv("XDG_CONFIG_HOME"))
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}

	return filepath.Join(base, "mangasrc")
}

func ConfigsDir() string {
	return filepath.Join(ConfigRoot(), "configs")
}

func CurrentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_config")
}

func profilePath(label string) string {
	return filepath.Join(ConfigsDir(), label+profileExt)
}

// profiles prepares the configs directory. Every exported helper goes
// through it so a fresh machine needs no setup step.
func profiles() (string, error) {
	dir := ConfigsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("configs dir: %w", err)
	}

	return dir, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func markActive(label string) error {
	if err := os.WriteFile(CurrentLabelFile(), []byte(label), 0o644); err != nil {
		return fmt.Errorf("select config %q: %w", label, err)
	}

	return nil
}

// CurrentLabel returns the label of the active profile, or ErrNoConfig when
// none was ever selected.
func CurrentLabel() (string, error) {
	if _, err := profiles(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(CurrentLabelFile())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", ErrNoConfig
	case err != nil:
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil && !errors.Is(err, ErrNoConfig) {
		return "", err
	}
	if label == "" {
		return "", ErrNoConfig
	}

	return profilePath(label), nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

// ListConfigs returns the stored profiles sorted by label.
func ListConfigs() ([]ConfigInfo, error) {
	dir, err := profiles()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}

	active, _ := CurrentLabel()

	var out []ConfigInfo
	for _, e := range entries {
		label, ok := strings.CutSuffix(e.Name(), profileExt)
		if e.IsDir() || !ok {
			continue
		}
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   filepath.Join(dir, e.Name()),
			Active: label == active,
		})
	}

	slices.SortFunc(out, func(a, b ConfigInfo) int { return cmp.Compare(a.Label, b.Label) })

	return out, nil
}

// validLabel rejects labels that would escape the configs directory.
func validLabel(label string) error {
	switch label = strings.TrimSpace(label); {
	case label == "":
		return errors.New("label cannot be empty")
	case label == "." || label == ".." || strings.ContainsAny(label, `/\`):
		return fmt.Errorf("invalid label %q", label)
	}

	return nil
}

// existingProfile checks label and returns the path of its profile. A
// missing profile wraps fs.ErrNotExist.
func existingProfile(label string) (string, error) {
	if err := validLabel(label); err != nil {
		return "", err
	}
	if _, err := profiles(); err != nil {
		return "", err
	}

	path := profilePath(label)
	ok, err := exists(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("config %q: %w", label, fs.ErrNotExist)
	}

	return path, nil
}

func SwitchConfig(label string) error {
	if _, err := existingProfile(label); err != nil {
		return err
	}

	return markActive(label)
}

// CreateEmptyConfig writes a profile holding the defaults and returns its
// path. An existing profile is never overwritten.
func CreateEmptyConfig(label string) (string, error) {
	if err := validLabel(label); err != nil {
		return "", err
	}
	if _, err := profiles(); err != nil {
		return "", err
	}

	path := profilePath(label)
	ok, err := exists(path)
	if err != nil {
		return "", err
	}
	if ok {
		return "", fmt.Errorf("config %q: %w", label, fs.ErrExist)
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, nil
}

// RemoveConfig deletes a profile. Removing the active one needs force and
// moves the selection back to DefaultLabel.
func RemoveConfig(label string, force bool) error {
	if label == DefaultLabel {
		return fmt.Errorf("cannot remove the %s config", DefaultLabel)
	}

	path, err := existingProfile(label)
	if err != nil {
		return err
	}

	if active, _ := CurrentLabel(); active == label {
		if !force {
			return fmt.Errorf("config %q is active; switch first or force removal", label)
		}
		if err := SwitchConfig(DefaultLabel); err != nil {
			return fmt.Errorf("fall back to %s: %w", DefaultLabel, err)
		}
	}

	return os.Remove(path)
}

// InitDefaultConfig creates the Default profile when missing and selects it.
// When the profile already exists it is only selected, and the returned
// error wraps fs.ErrExist.
func InitDefaultConfig() (string, error) {
	if _, err := profiles(); err != nil {
		return "", err
	}

	path := profilePath(DefaultLabel)
	found, err := exists(path)
	if err != nil {
		return "", err
	}
	if !found {
		if err := SaveYAML(DefaultConfig(), path); err != nil {
			return "", err
		}
	}

	if err := markActive(DefaultLabel); err != nil {
		return "", err
	}
	if found {
		return path, fmt.Errorf("config %q: %w", DefaultLabel, fs.ErrExist)
	}

	return path, nil
}
