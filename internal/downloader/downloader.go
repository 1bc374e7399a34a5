// Package downloader fetches chapter page images and packs them into CBZ
// archives.
package downloader

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/brogergvhs/mangasrc/internal/chapters"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/ui"
	"github.com/brogergvhs/mangasrc/internal/util"
)

// PageLister resolves the page images of a chapter. providers.Source
// satisfies it.
type PageLister interface {
	ChapterDetails(ctx context.Context, mangaID, chapterID string) (model.ChapterDetails, error)
}

type Options struct {
	OutputDir    string
	ImageWorkers int
	SkipBroken   bool
	KeepFolders  bool
	// Headers are sent with every image request (Referer, site cookies).
	Headers map[string]string
	Retries int
	Backoff time.Duration
}

type Downloader struct {
	client *http.Client
	opts   Options
	log    interface{ Debugf(string, ...any) }
}

func New(c *http.Client, opts Options, log interface{ Debugf(string, ...any) }) *Downloader {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.ImageWorkers < 1 {
		opts.ImageWorkers = 1
	}
	if opts.Retries < 1 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}

	return &Downloader{client: c, opts: opts, log: log}
}

// Result describes one packed chapter.
type Result struct {
	CBZ    string
	Images int
	Bytes  int64
}

// DownloadChapter lists the chapter pages, downloads them into a temporary
// folder and packs the folder into a CBZ named after the chapter. The
// temporary folder is removed on failure, and on success unless KeepFolders
// is set.
func (d *Downloader) DownloadChapter(ctx context.Context, src PageLister, ch chapters.Chapter, ph *ui.ProgressHandle) (Result, error) {
	details, err := src.ChapterDetails(ctx, ch.MangaID, ch.ID)
	if err != nil {
		return Result{}, fmt.Errorf("chapter %s: %w", ch.Label(), err)
	}

	tmpFolder := filepath.Join(d.opts.OutputDir, ch.FolderName())
	cbzOut := ch.OutputCBZPath(d.opts.OutputDir)

	files, n, err := d.DownloadImagesConcurrently(ctx, details.Pages, tmpFolder, ph)
	if err != nil {
		_ = os.RemoveAll(tmpFolder)
		return Result{}, fmt.Errorf("chapter %s: %w", ch.Label(), err)
	}
	if len(files) == 0 {
		_ = os.RemoveAll(tmpFolder)
		return Result{}, fmt.Errorf("chapter %s: %w", ch.Label(), model.ErrNoPages)
	}

	if err := util.CreateCBZ(files, cbzOut); err != nil {
		_ = os.RemoveAll(tmpFolder)
		return Result{}, fmt.Errorf("chapter %s: %w", ch.Label(), err)
	}

	if !d.opts.KeepFolders {
		util.CleanupFolder(tmpFolder)
	}

	return Result{CBZ: cbzOut, Images: len(files), Bytes: n}, nil
}

type chapterState struct {
	mu          sync.Mutex
	doneImages  int
	totalImages int
	doneBytes   int64
}

func (cs *chapterState) step(ph *ui.ProgressHandle, image bool, bytes int64) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if image {
		cs.doneImages++
	}
	cs.doneBytes += bytes
	ph.Update(cs.doneImages, cs.totalImages, cs.doneBytes)
}

// DownloadImagesConcurrently saves urls into folder as page_NNN files using
// a bounded worker pool. Failed images are fatal unless SkipBroken is set.
func (d *Downloader) DownloadImagesConcurrently(
	ctx context.Context,
	urls []string,
	folder string,
	ph *ui.ProgressHandle,
) ([]string, int64, error) {

	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, 0, err
	}

	total := len(urls)
	maxParallel := min(d.opts.ImageWorkers, max(1, total))

	cs := &chapterState{totalImages: total}
	ph.Update(0, total, 0)

	var mu sync.Mutex
	files := make([]string, 0, len(urls))
	var errs []error

	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			u := urls[i]

			// animated gifs on these sites are ads, not pages
			if strings.EqualFold(imageExt(u), ".gif") {
				cs.step(ph, true, 0)
				continue
			}

			out := filepath.Join(folder, fmt.Sprintf("page_%03d%s", i+1, imageExt(u)))
			var last int64

			progress := func(done int64) {
				delta := done - last
				if delta <= 0 {
					return
				}
				last = done
				cs.step(ph, false, delta)
			}

			if err := d.downloadWithRetry(ctx, u, out, progress); err != nil {
				if d.log != nil {
					d.log.Debugf("image %d (%s): %v", i+1, u, err)
				}
				mu.Lock()
				errs = append(errs, fmt.Errorf("image %d: %w", i+1, err))
				mu.Unlock()
				cs.step(ph, true, 0)
				continue
			}

			mu.Lock()
			files = append(files, out)
			mu.Unlock()
			cs.step(ph, true, 0)
		}
	}

	wg.Add(maxParallel)
	for range maxParallel {
		go worker()
	}

	for i := range urls {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			ph.Abort()
			return files, cs.doneBytes, ctx.Err()
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()

	if len(errs) > 0 && !d.opts.SkipBroken {
		ph.Abort()
		return files, cs.doneBytes, fmt.Errorf("failed %d/%d images (use --skip-broken to continue): %w", len(errs), total, errs[0])
	}
	ph.MarkDone()

	return files, cs.doneBytes, nil
}

func imageExt(u string) string {
	p := u
	if parsed, err := url.Parse(u); err == nil {
		p = parsed.Path
	}

	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif":
		return ext
	}

	return ".jpg"
}

func (d *Downloader) downloadWithRetry(ctx context.Context, u, output string, progress func(done int64)) error {
	var err error
	for attempt := 1; attempt <= d.opts.Retries; attempt++ {
		err = d.download(ctx, u, output, progress)
		if err == nil || attempt == d.opts.Retries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * d.opts.Backoff):
		}
	}

	return err
}

func (d *Downloader) download(ctx context.Context, u, output string, progress func(done int64)) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	for k, v := range d.opts.Headers {
		// the page host differs from the site host
		if strings.EqualFold(k, "Host") {
			continue
		}
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, _ := mime.ParseMediaType(ct); !strings.HasPrefix(mt, "image/") {
			return fmt.Errorf("unexpected MIME: %s", ct)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	written, err := copyWithProgress(f, resp.Body, progress)
	if err != nil {
		return err
	}

	if progress != nil && resp.ContentLength > 0 && written < resp.ContentLength {
		progress(resp.ContentLength)
	}

	return nil
}
