package cmd

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/brogergvhs/mangasrc/internal/config"
	"github.com/brogergvhs/mangasrc/internal/downloader"
	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/ui"
	"github.com/brogergvhs/mangasrc/internal/util"

	"github.com/spf13/cobra"
)

var (
	// runtime
	flagOutput         string
	flagImageWorkers   int
	flagChapterWorkers int
	flagKeepFolders    bool
	flagDryRun         bool
	flagSkipBroken     bool
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download <manga-id>",
		Short: "Download chapters as CBZ files. Uses the defaults from the selected config, overwritten by CLI flags",
		Args:  cobra.ExactArgs(1),
		RunE: sourceCommand(func(o *config.Options) {
			o.Output = flagOutput
			o.ImageWorkers = flagImageWorkers
			o.ChapterWorkers = flagChapterWorkers
			o.SkipBroken = flagSkipBroken
		}, runDownload),
	}

	// selection
	addSelectionFlags(downloadCmd)

	// runtime
	downloadCmd.Flags().StringVar(&flagOutput, "output", "", "output folder for CBZ files")
	downloadCmd.Flags().IntVar(&flagImageWorkers, "image-workers", 0, "parallel image downloads per chapter")
	downloadCmd.Flags().IntVar(&flagChapterWorkers, "chapter-workers", 0, "parallel chapter downloads")
	downloadCmd.Flags().BoolVar(&flagKeepFolders, "keep-folders", false, "keep temporary folders")
	downloadCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show what would be downloaded, don't download")
	downloadCmd.Flags().BoolVar(&flagSkipBroken, "skip-broken", false, "skip failed images instead of failing the whole chapter")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, a *app, src providers.Source, args []string) error {
	ctx := cmd.Context()
	mangaID := args[0]
	cfg := a.cfg

	m, err := src.MangaDetails(ctx, mangaID)
	if err != nil {
		return err
	}

	selected, err := selectChapters(ctx, src, mangaID, m.Title())
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no chapters selected")
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "%s: %d chapters selected\n", m.Title(), len(selected))

	if flagDryRun {
		for i, ch := range selected {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d) Ch.%s  [%s]\n    %s\n", i+1, ch.Label(), ch.ID, ch.OutputCBZPath(cfg.Output))
		}
		return nil
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}

	fmt.Fprintln(out, "Config:")
	cfg.Print(out)
	fmt.Fprintln(out)

	pm := ui.NewProgressManager(out)
	stats := &ui.Stats{}
	dl := downloader.New(a.client, downloader.Options{
		OutputDir:    cfg.Output,
		ImageWorkers: cfg.ImageWorkers,
		SkipBroken:   cfg.SkipBroken,
		KeepFolders:  flagKeepFolders,
		Headers:      imageHeaders(src),
		Retries:      cfg.Retries,
	}, a.log)
	start := time.Now()

	sem := make(chan struct{}, max(1, cfg.ChapterWorkers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error

	for _, ch := range selected {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			handle := pm.Register("Ch."+ch.Label(), "pages")
			res, err := dl.DownloadChapter(ctx, src, ch, handle)
			if err != nil {
				handle.Abort()
				stats.Failed.Add(1)
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}

			stats.TotalChapters.Add(1)
			stats.TotalImages.Add(int64(res.Images))
			stats.TotalBytes.Add(res.Bytes)
		}()
	}
	wg.Wait()
	pm.Close()

	if ctx.Err() != nil {
		util.CleanupUnfinishedTempFolders(cfg.Output, out)
		util.RemoveIfEmpty(cfg.Output, out)
	}

	for _, err := range failures {
		a.log.Errorf("%v", err)
	}
	stats.Summary(out, time.Since(start))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return errors.Join(failures...)
}
