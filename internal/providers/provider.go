package providers

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"time"

	"github.com/brogergvhs/mangasrc/internal/model"
)

var (
	ErrUnknownSource = errors.New("unknown source")
	ErrUnsupported   = errors.New("operation not supported by source")
)

// Request is everything the host needs to perform one fetch.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Cookies []*http.Cookie
}

// Fetcher is the host's network capability. Sources never talk to the
// network any other way.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

type FetcherFunc func(ctx context.Context, req Request) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}

type SearchQuery struct {
	Title string
	Tags  []string
}

type Source interface {
	Key() string
	Name() string
	MangaURL(mangaID string) string

	MangaDetails(ctx context.Context, mangaID string) (model.Manga, error)
	Chapters(ctx context.Context, mangaID string) ([]model.Chapter, error)
	ChapterDetails(ctx context.Context, mangaID, chapterID string) (model.ChapterDetails, error)
	Search(ctx context.Context, q SearchQuery, page int) (model.PagedTiles, error)
	// HomeSections yields the empty placeholders first, then the populated
	// sections once the landing page has been parsed.
	HomeSections(ctx context.Context) iter.Seq2[[]model.HomeSection, error]
	TagGroups(ctx context.Context) ([]model.TagGroup, error)
	ScanUpdates(ctx context.Context, since time.Time, ids []string) iter.Seq2[model.UpdateBatch, error]
}
