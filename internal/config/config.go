// Package config holds the host CLI profiles: labeled YAML files under the
// user config directory, one of them active at a time.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/brogergvhs/mangasrc/internal/providers/generic"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source string `yaml:"source"`

	Output         string `yaml:"output"`
	ImageWorkers   int    `yaml:"image_workers"`
	ChapterWorkers int    `yaml:"chapter_workers"`
	SkipBroken     bool   `yaml:"skip_broken"`

	Cookie         string `yaml:"cookie"`
	CookieFile     string `yaml:"cookie_file"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Retries        int    `yaml:"retries"`

	MaxScanPages int                `yaml:"max_scan_pages"`
	ScanPolicy   generic.ScanPolicy `yaml:"scan_policy"`
	SelectorsDir string             `yaml:"selectors_dir"`

	Debug bool `yaml:"debug"`
}

// Options are the CLI flag values. Zero values leave the profile untouched.
type Options struct {
	IgnoreConfig   bool
	Debug          bool
	Source         string
	Output         string
	ImageWorkers   int
	ChapterWorkers int
	SkipBroken     bool
	Cookie         string
	CookieFile     string
	UserAgent      string
	TimeoutSeconds int
	Retries        int
	MaxScanPages   int
	ScanPolicy     string
	SelectorsDir   string
}

func DefaultConfig() *Config {
	return &Config{
		Output:         ".",
		ImageWorkers:   5,
		ChapterWorkers: 2,
		TimeoutSeconds: 30,
		Retries:        3,
		MaxScanPages:   10,
		ScanPolicy:     generic.StopOnUntracked,
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// keys missing from the file keep their defaults
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadMerged resolves the active profile and applies opts on top. The second
// result names where the values came from.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		return finish(cfg, opts, "(ignored config)")
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) || (err == nil && activePath == "") {
		cfg := DefaultConfig()
		return finish(cfg, opts, "(default config in memory)\nRun `mangasrc config init` to create an actual config")
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	return finish(cfg, opts, activePath)
}

func finish(cfg *Config, opts Options, used string) (*Config, string, error) {
	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	policy, err := generic.ParseScanPolicy(string(cfg.ScanPolicy))
	if err != nil {
		return nil, "", fmt.Errorf("scan_policy: %w", err)
	}
	cfg.ScanPolicy = policy

	return cfg, used, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Source != "" {
		c.Source = o.Source
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.ImageWorkers != 0 {
		c.ImageWorkers = o.ImageWorkers
	}
	if o.ChapterWorkers != 0 {
		c.ChapterWorkers = o.ChapterWorkers
	}
	if o.SkipBroken {
		c.SkipBroken = true
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.TimeoutSeconds != 0 {
		c.TimeoutSeconds = o.TimeoutSeconds
	}
	if o.Retries != 0 {
		c.Retries = o.Retries
	}
	if o.MaxScanPages != 0 {
		c.MaxScanPages = o.MaxScanPages
	}
	if o.ScanPolicy != "" {
		c.ScanPolicy = generic.ScanPolicy(o.ScanPolicy)
	}
	if o.SelectorsDir != "" {
		c.SelectorsDir = o.SelectorsDir
	}
	if o.Debug {
		c.Debug = true
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if c.ImageWorkers <= 0 {
		c.ImageWorkers = 5
	}
	if c.ChapterWorkers <= 0 {
		c.ChapterWorkers = 2
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.Retries <= 0 {
		c.Retries = 1
	}
	if c.MaxScanPages <= 0 {
		c.MaxScanPages = 10
	}
}

// Print lists the effective values, skipping unset optional ones. The
// cookie value itself is never printed.
func (c *Config) Print(w io.Writer) {
	if c.Source != "" {
		fmt.Fprintf(w, " -source: %s\n", c.Source)
	}
	fmt.Fprintf(w, " -output: %s\n", c.Output)
	fmt.Fprintf(w, " -image_workers: %d\n", c.ImageWorkers)
	fmt.Fprintf(w, " -chapter_workers: %d\n", c.ChapterWorkers)
	if c.SkipBroken {
		fmt.Fprintf(w, " -skip_broken: %t\n", c.SkipBroken)
	}
	if c.Cookie != "" {
		fmt.Fprintf(w, " -cookie: (set)\n")
	}
	if c.CookieFile != "" {
		fmt.Fprintf(w, " -cookie_file: %s\n", c.CookieFile)
	}
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	fmt.Fprintf(w, " -timeout_seconds: %d\n", c.TimeoutSeconds)
	fmt.Fprintf(w, " -retries: %d\n", c.Retries)
	fmt.Fprintf(w, " -max_scan_pages: %d\n", c.MaxScanPages)
	fmt.Fprintf(w, " -scan_policy: %s\n", c.ScanPolicy)
	if c.SelectorsDir != "" {
		fmt.Fprintf(w, " -selectors_dir: %s\n", c.SelectorsDir)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
}
