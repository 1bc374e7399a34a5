package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/brogergvhs/mangasrc/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
	flagSource       string

	// http
	flagCookie       string
	flagCookieFile   string
	flagUserAgent    string
	flagTimeout      int
	flagRetries      int
	flagSelectorsDir string
)

var rootCmd = &cobra.Command{
	Use:           "mangasrc",
	Short:         "Browse and download from French manga scan sites",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagSource, "source", "s", "", "source key (mangascan, scanfr); prompts when unset")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	pf.BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")

	pf.StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	pf.StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	pf.StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	pf.IntVar(&flagTimeout, "timeout", 0, "HTTP timeout in seconds")
	pf.IntVar(&flagRetries, "retries", 0, "attempts per request on network or 5xx errors")
	pf.StringVar(&flagSelectorsDir, "selectors-dir", "", "directory of <source>.yaml selector overrides")
}

func Execute() {
	ctx, stop := util.InterruptContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
