// Package site turns a declarative site description into a providers.Source.
//
// A Config names the URL templates of one reader-CMS site and carries its
// selector map; Client maps every host operation onto one or more fetches
// and hands the parsed bodies to the generic extractors.
package site

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/brogergvhs/mangasrc/internal/providers/generic"
)

type SearchFormat string

const (
	SearchHTML        SearchFormat = "html"
	SearchSuggestions SearchFormat = "suggestions"
)

// Paging decides when a search page advertises a next page.
type Paging string

const (
	// PagingControl reads the pagination control of the listing.
	PagingControl Paging = "pagination"
	// PagingNonEmpty assumes more results whenever the page was not empty.
	// At the true end this costs one extra, empty request.
	PagingNonEmpty Paging = "non_empty"
)

const DefaultMaxScanPages = 10

// Config describes one site. Path templates are relative to BaseURL unless
// they already carry a scheme, and use the placeholders {id}, {manga},
// {chapter}, {query}, {tag} and {page}.
type Config struct {
	Key     string
	Name    string
	BaseURL string

	Headers map[string]string
	Cookies []*http.Cookie

	Selectors generic.Selectors

	MangaPath   string
	ChapterPath string
	SearchPath  string
	// SearchTagParam is appended to SearchPath when the query names a tag.
	SearchTagParam string
	SearchFormat   SearchFormat
	Paging         Paging
	// EncodeQuery prepares the search text for {query}. Nil means
	// url.QueryEscape.
	EncodeQuery func(string) string

	HomePath    string
	TagsPath    string
	UpdatesPath string

	MaxScanPages int
	ScanPolicy   generic.ScanPolicy
}

func (c *Config) validate() error {
	if c.Key == "" {
		return fmt.Errorf("site config: key is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("site %s: base url %q must be absolute", c.Key, c.BaseURL)
	}
	if c.MangaPath == "" || c.ChapterPath == "" {
		return fmt.Errorf("site %s: manga and chapter paths are required", c.Key)
	}

	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.SearchFormat == "" {
		c.SearchFormat = SearchHTML
	}
	switch c.SearchFormat {
	case SearchHTML, SearchSuggestions:
	default:
		return fmt.Errorf("site %s: unknown search format %q", c.Key, c.SearchFormat)
	}

	if c.Paging == "" {
		c.Paging = PagingControl
	}
	switch c.Paging {
	case PagingControl, PagingNonEmpty:
	default:
		return fmt.Errorf("site %s: unknown paging %q", c.Key, c.Paging)
	}

	if c.MaxScanPages <= 0 {
		c.MaxScanPages = DefaultMaxScanPages
	}

	policy, err := generic.ParseScanPolicy(string(c.ScanPolicy))
	if err != nil {
		return fmt.Errorf("site %s: %w", c.Key, err)
	}
	c.ScanPolicy = policy

	if err := c.Selectors.Validate(); err != nil {
		return fmt.Errorf("site %s: %w", c.Key, err)
	}

	return nil
}

// expand fills the placeholders of tmpl and resolves it against the base URL.
func (c *Config) expand(tmpl string, vars ...string) string {
	s := strings.NewReplacer(vars...).Replace(tmpl)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}

	return c.BaseURL + "/" + strings.TrimLeft(s, "/")
}
