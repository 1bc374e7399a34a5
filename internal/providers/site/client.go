package site

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/providers/generic"
)

// ErrScanPageLimit is returned when the update feed keeps asking for more
// pages past the configured ceiling.
var ErrScanPageLimit = errors.New("update scan page limit reached")

type Options struct {
	Logger interface {
		Debugf(string, ...any)
	}
	// Now is the clock used to resolve relative dates. Defaults to time.Now.
	Now func() time.Time
	// MaxScanPages and ScanPolicy override the site defaults when set.
	MaxScanPages int
	ScanPolicy   generic.ScanPolicy
}

type Client struct {
	cfg     Config
	fetcher providers.Fetcher
	log     interface{ Debugf(string, ...any) }
	now     func() time.Time
}

var _ providers.Source = (*Client)(nil)

func New(cfg Config, fetcher providers.Fetcher, opts Options) (*Client, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("site %s: fetcher is required", cfg.Key)
	}
	if opts.MaxScanPages > 0 {
		cfg.MaxScanPages = opts.MaxScanPages
	}
	if opts.ScanPolicy != "" {
		cfg.ScanPolicy = opts.ScanPolicy
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		cfg:     cfg,
		fetcher: fetcher,
		log:     opts.Logger,
		now:     now,
	}, nil
}

func (c *Client) Key() string { return c.cfg.Key }
func (c *Client) Name() string { return c.cfg.Name }

// Config returns a copy of the resolved site configuration.
func (c *Client) Config() Config { return c.cfg }

func (c *Client) MangaURL(mangaID string) string {
	return c.cfg.expand(c.cfg.MangaPath, "{id}", mangaID)
}

func (c *Client) MangaDetails(ctx context.Context, mangaID string) (model.Manga, error) {
	doc, err := c.document(ctx, c.MangaURL(mangaID))
	if err != nil {
		return model.Manga{}, err
	}

	if unknown := generic.UnknownLabels(doc, c.cfg.Selectors); len(unknown) > 0 {
		c.debugf("%s: ignored panel labels for %s: %v", c.cfg.Key, mangaID, unknown)
	}

	return generic.ExtractManga(doc, mangaID, c.cfg.Selectors)
}

// Chapters reads the chapter list, which the CMS embeds in the details page.
// Rows with an unreadable date are returned undated and logged at debug.
func (c *Client) Chapters(ctx context.Context, mangaID string) ([]model.Chapter, error) {
	doc, err := c.document(ctx, c.MangaURL(mangaID))
	if err != nil {
		return nil, err
	}

	chapters, err := generic.ExtractChapters(doc, mangaID, c.cfg.Selectors, c.now())
	if err != nil {
		c.debugf("%s: chapter rows of %s with problems: %v", c.cfg.Key, mangaID, err)
	}

	return chapters, nil
}

func (c *Client) ChapterDetails(ctx context.Context, mangaID, chapterID string) (model.ChapterDetails, error) {
	target := c.cfg.expand(c.cfg.ChapterPath, "{manga}", mangaID, "{chapter}", chapterID)

	doc, err := c.document(ctx, target)
	if err != nil {
		return model.ChapterDetails{}, err
	}

	return generic.ExtractPages(doc, mangaID, chapterID, c.cfg.BaseURL, c.cfg.Selectors)
}

// Search returns one page of results. page starts at 1; NextPage is 0 when
// the site has nothing more to offer.
func (c *Client) Search(ctx context.Context, q providers.SearchQuery, page int) (model.PagedTiles, error) {
	if page < 1 {
		page = 1
	}
	if c.cfg.SearchPath == "" {
		return model.PagedTiles{}, fmt.Errorf("%s search: %w", c.cfg.Key, providers.ErrUnsupported)
	}
	if len(q.Tags) > 0 && c.cfg.SearchTagParam == "" {
		return model.PagedTiles{}, fmt.Errorf("%s search by tag: %w", c.cfg.Key, providers.ErrUnsupported)
	}

	encode := c.cfg.EncodeQuery
	if encode == nil {
		encode = url.QueryEscape
	}

	tmpl := c.cfg.SearchPath
	vars := []string{"{query}", encode(q.Title), "{page}", strconv.Itoa(page)}
	if len(q.Tags) > 0 {
		tmpl += c.cfg.SearchTagParam
		vars = append(vars, "{tag}", url.QueryEscape(q.Tags[0]))
	}

	body, err := c.fetch(ctx, c.cfg.expand(tmpl, vars...))
	if err != nil {
		return model.PagedTiles{}, err
	}

	var (
		tiles []model.Tile
		last  bool
	)
	switch c.cfg.SearchFormat {
	case SearchSuggestions:
		tiles, err = generic.ExtractSuggestions(body, c.cfg.Selectors.Search.Tiles.Thumbnail)
		if errors.Is(err, generic.ErrNotSuggestions) {
			c.debugf("%s: search answered without suggestions (%d bytes), no results", c.cfg.Key, len(body))
			return model.PagedTiles{Results: tiles}, nil
		}
		if err != nil {
			return model.PagedTiles{}, err
		}
	default:
		doc, err := generic.Parse(body)
		if err != nil {
			return model.PagedTiles{}, err
		}
		tiles, err = generic.ExtractTiles(doc, c.cfg.Selectors.Search.Tiles)
		if err != nil {
			return model.PagedTiles{}, err
		}
		last = generic.IsLastPage(doc, c.cfg.Selectors.Search.Pagination)
	}

	result := model.PagedTiles{Results: tiles}
	switch c.cfg.Paging {
	case PagingNonEmpty:
		if len(tiles) > 0 {
			result.NextPage = page + 1
		}
	default:
		if !last {
			result.NextPage = page + 1
		}
	}

	return result, nil
}

// HomeSections yields the placeholders before touching the network, then the
// populated sections. A failed fetch is reported in the second yield.
func (c *Client) HomeSections(ctx context.Context) iter.Seq2[[]model.HomeSection, error] {
	return func(yield func([]model.HomeSection, error) bool) {
		blocks := c.cfg.Selectors.Home
		if len(blocks) == 0 || c.cfg.HomePath == "" {
			yield(nil, fmt.Errorf("%s home: %w", c.cfg.Key, providers.ErrUnsupported))
			return
		}

		placeholders := generic.Placeholders(blocks)
		if !yield(placeholders, nil) {
			return
		}

		doc, err := c.document(ctx, c.cfg.expand(c.cfg.HomePath))
		if err != nil {
			yield(nil, err)
			return
		}

		yield(generic.ExtractHome(doc, placeholders, blocks))
	}
}

func (c *Client) TagGroups(ctx context.Context) ([]model.TagGroup, error) {
	if c.cfg.TagsPath == "" || c.cfg.Selectors.Tags.Link == "" {
		return nil, fmt.Errorf("%s tags: %w", c.cfg.Key, providers.ErrUnsupported)
	}

	doc, err := c.document(ctx, c.cfg.expand(c.cfg.TagsPath))
	if err != nil {
		return nil, err
	}

	return generic.ExtractTagGroups(doc, c.cfg.Selectors), nil
}

// ScanUpdates walks the update feed one page at a time, strictly in order,
// and yields the tracked ids found on each page. It stops when the page fold
// says so or a page has no entries, and fails with ErrScanPageLimit once
// MaxScanPages pages were read without a stop signal.
func (c *Client) ScanUpdates(ctx context.Context, since time.Time, ids []string) iter.Seq2[model.UpdateBatch, error] {
	return func(yield func(model.UpdateBatch, error) bool) {
		if c.cfg.UpdatesPath == "" || c.cfg.Selectors.Updates.Row == "" {
			yield(model.UpdateBatch{}, fmt.Errorf("%s updates: %w", c.cfg.Key, providers.ErrUnsupported))
			return
		}

		tracked := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			tracked[id] = struct{}{}
		}

		for page := 1; page <= c.cfg.MaxScanPages; page++ {
			doc, err := c.document(ctx, c.cfg.expand(c.cfg.UpdatesPath, "{page}", strconv.Itoa(page)))
			if err != nil {
				yield(model.UpdateBatch{}, err)
				return
			}

			res := generic.ScanUpdates(doc, c.cfg.Selectors, since, tracked, c.cfg.ScanPolicy, c.now())
			for _, s := range res.Skipped {
				c.debugf("%s: update entry with unreadable date skipped: %s", c.cfg.Key, s)
			}

			if len(res.IDs) > 0 {
				if !yield(model.UpdateBatch{Page: page, IDs: res.IDs}, nil) {
					return
				}
			}

			if !res.LoadMore || res.Entries == 0 {
				return
			}
		}

		yield(model.UpdateBatch{}, fmt.Errorf("%s: %w after %d pages", c.cfg.Key, ErrScanPageLimit, c.cfg.MaxScanPages))
	}
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.debugf("%s: GET %s", c.cfg.Key, target)

	body, err := c.fetcher.Fetch(ctx, providers.Request{
		URL:     target,
		Method:  http.MethodGet,
		Headers: c.cfg.Headers,
		Cookies: c.cfg.Cookies,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}

	return body, nil
}

func (c *Client) document(ctx context.Context, target string) (*goquery.Document, error) {
	body, err := c.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	return generic.Parse(body)
}

func (c *Client) debugf(format string, args ...any) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}
