package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brogergvhs/mangasrc/internal/config"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/providers/site"
	"github.com/brogergvhs/mangasrc/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagSince        string
	flagIDs          []string
	flagMaxScanPages int
	flagScanPolicy   string
	flagProgress     bool
)

func init() {
	updatesCmd := &cobra.Command{
		Use:   "updates [manga-id...]",
		Short: "Find which tracked mangas were updated since a date",
		Args:  cobra.ArbitraryArgs,
		RunE: sourceCommand(func(o *config.Options) {
			o.MaxScanPages = flagMaxScanPages
			o.ScanPolicy = flagScanPolicy
		}, runUpdates),
	}

	updatesCmd.Flags().StringVar(&flagSince, "since", "24h", "cutoff as a date (2024-06-01), RFC 3339 time or duration ago (48h)")
	updatesCmd.Flags().StringSliceVar(&flagIDs, "ids", nil, "tracked manga ids (comma separated)")
	updatesCmd.Flags().IntVar(&flagMaxScanPages, "max-scan-pages", 0, "stop after this many feed pages")
	updatesCmd.Flags().StringVar(&flagScanPolicy, "scan-policy", "", "stop_on_untracked or stop_on_stale")
	updatesCmd.Flags().BoolVar(&flagProgress, "progress", false, "show a progress bar on stderr")

	rootCmd.AddCommand(updatesCmd)
}

func runUpdates(cmd *cobra.Command, a *app, src providers.Source, args []string) error {
	since, err := parseSince(flagSince, time.Now())
	if err != nil {
		return err
	}

	ids := append(append([]string{}, flagIDs...), args...)
	if len(ids) == 0 {
		return fmt.Errorf("no tracked ids; pass them as arguments or with --ids")
	}

	var bar *ui.ProgressHandle
	if flagProgress {
		pm := ui.NewProgressManager(os.Stderr)
		defer pm.Close()

		bar = pm.Register(src.Key(), "feed pages")
		bar.SetTotal(a.cfg.MaxScanPages)
	}

	a.log.Debugf("updates: %d tracked ids since %s", len(ids), since.Format(time.RFC3339))

	batches := []model.UpdateBatch{}
	var scanErr error
	for batch, err := range src.ScanUpdates(cmd.Context(), since, ids) {
		if err != nil {
			scanErr = err
			break
		}
		bar.Update(batch.Page, 0, 0)
		batches = append(batches, batch)
	}

	if scanErr != nil {
		bar.Abort()
	} else {
		bar.MarkDone()
	}

	if err := printYAML(cmd.OutOrStdout(), batches); err != nil {
		return err
	}

	if errors.Is(scanErr, site.ErrScanPageLimit) {
		return fmt.Errorf("%w; raise --max-scan-pages or use --scan-policy stop_on_stale", scanErr)
	}

	return scanErr
}

// parseSince accepts a day, an RFC 3339 time or a duration before now.
func parseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)

	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid --since %q", s)
}
