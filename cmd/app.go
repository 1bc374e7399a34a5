package cmd

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brogergvhs/mangasrc/internal/config"
	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/providers/registry"
	"github.com/brogergvhs/mangasrc/internal/providers/site"
	"github.com/brogergvhs/mangasrc/internal/ui"
	"github.com/brogergvhs/mangasrc/internal/util"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// app is what every source command needs: the merged config, a logger, the
// HTTP client and the registry of sources built on it.
type app struct {
	cfg      *config.Config
	cfgPath  string
	log      *ui.Logger
	client   *http.Client
	registry *registry.Registry
}

func baseOptions() config.Options {
	return config.Options{
		IgnoreConfig:   flagIgnoreConfig,
		Debug:          flagDebug,
		Source:         flagSource,
		Cookie:         flagCookie,
		CookieFile:     flagCookieFile,
		UserAgent:      flagUserAgent,
		TimeoutSeconds: flagTimeout,
		Retries:        flagRetries,
		SelectorsDir:   flagSelectorsDir,
	}
}

// loadApp merges the active profile with the global flags; extra lets a
// command apply its own flags before the merge.
func loadApp(extra func(*config.Options)) (*app, error) {
	opts := baseOptions()
	if extra != nil {
		extra(&opts)
	}

	cfg, used, err := config.LoadMerged(opts)
	if err != nil {
		return nil, err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	logSvc.Debugf("Config: %s", used)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:     cfg.Timeout(),
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		Cookie:      cfg.Cookie,
		CookieFile:  cfg.CookieFile,
		DebugLogger: logSvc,
	})
	if err != nil {
		return nil, err
	}

	fetcher := &util.Fetcher{
		Client:  client,
		Retries: cfg.Retries,
		Backoff: time.Second,
	}

	reg, err := registry.New(fetcher, registry.Options{
		Site: site.Options{
			Logger:       logSvc,
			MaxScanPages: cfg.MaxScanPages,
			ScanPolicy:   cfg.ScanPolicy,
		},
		SelectorsDir: cfg.SelectorsDir,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		cfgPath:  used,
		log:      logSvc,
		client:   client,
		registry: reg,
	}, nil
}

// source resolves the configured source, asking interactively when none is
// set.
func (a *app) source() (providers.Source, error) {
	if a.cfg.Source != "" {
		return a.registry.Get(a.cfg.Source)
	}

	list := a.registry.List()
	items := make([]string, len(list))
	for i, d := range list {
		items[i] = fmt.Sprintf("%s (%s)", d.Name, d.BaseURL)
	}

	prompt := promptui.Select{
		Label: "Select source",
		Items: items,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("no source selected; pass --source or set source in the config")
	}

	return a.registry.Get(list[idx].Key)
}

// imageHeaders are the site headers image hosts expect, with the site
// cookies folded into a Cookie header.
func imageHeaders(src providers.Source) map[string]string {
	headers := map[string]string{}

	c, ok := src.(*site.Client)
	if !ok {
		return headers
	}

	cfg := c.Config()
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if _, ok := headers["Referer"]; !ok {
		headers["Referer"] = cfg.BaseURL
	}

	if len(cfg.Cookies) > 0 {
		parts := make([]string, len(cfg.Cookies))
		for i, ck := range cfg.Cookies {
			parts[i] = ck.String()
		}
		headers["Cookie"] = strings.Join(parts, "; ")
	}

	return headers
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}

// sourceCommand wraps commands that act on one source.
func sourceCommand(extra func(*config.Options), run func(cmd *cobra.Command, a *app, src providers.Source, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(extra)
		if err != nil {
			return err
		}

		src, err := a.source()
		if err != nil {
			return err
		}
		a.log.Debugf("Source: %s (%s)", src.Name(), src.Key())

		return run(cmd, a, src, args)
	}
}
