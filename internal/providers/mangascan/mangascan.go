// Package mangascan describes scanmanga-vf.cc.
package mangascan

import (
	"net/url"
	"strings"

	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/providers/generic"
	"github.com/brogergvhs/mangasrc/internal/providers/site"
)

const (
	Key     = "mangascan"
	BaseURL = "https://scanmanga-vf.cc"

	userAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 15_4_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.4 Mobile/15E148 Safari/604.1"
	thumbnail = "https://scanmanga-vf.ws/uploads/manga/{id}.jpg"
)

var apostrophes = strings.NewReplacer("’", "'", "´", "'")

// encodeQuery turns spaces into "+" and every apostrophe variant into %27.
func encodeQuery(q string) string {
	return url.QueryEscape(apostrophes.Replace(strings.TrimSpace(q)))
}

func Config() site.Config {
	return site.Config{
		Key:     Key,
		Name:    "MangaScan",
		BaseURL: BaseURL,
		Headers: map[string]string{
			"Host":       "scanmanga-vf.cc",
			"User-Agent": userAgent,
			"Referer":    BaseURL,
		},

		Selectors: Selectors(),

		MangaPath: "/manga/{id}",
		// chapter ids are the full reader URL
		ChapterPath:    "{chapter}",
		SearchPath:     "/filterList?page={page}&alpha={query}&sortBy=name&asc=true",
		SearchTagParam: "&tag={tag}",
		SearchFormat:   site.SearchHTML,
		Paging:         site.PagingControl,
		EncodeQuery:    encodeQuery,

		HomePath:    "/",
		TagsPath:    "/manga-list",
		UpdatesPath: "/latest-release?page={page}",

		MaxScanPages: site.DefaultMaxScanPages,
		ScanPolicy:   generic.StopOnUntracked,
	}
}

func Selectors() generic.Selectors {
	return generic.Selectors{
		Details: generic.DetailSelectors{
			Title:      ".widget-title",
			Cover:      ".img-responsive",
			CoverAttr:  "src",
			PanelLabel: "dl.dl-horizontal dt",
			LabelMatch: generic.MatchContains,
			Fields: map[string]generic.FieldRule{
				generic.FieldStatus:     {Labels: []string{"Statut"}},
				generic.FieldAltNames:   {Labels: []string{"Autres noms"}, Split: ","},
				generic.FieldAuthor:     {Labels: []string{"Auteur(s)"}},
				generic.FieldArtist:     {Labels: []string{"Artist(s)"}},
				generic.FieldCategories: {Labels: []string{"Catégories"}, Split: ",", Capitalize: true},
				generic.FieldTags:       {Labels: []string{"Tags"}, Split: "\n"},
				generic.FieldViews:      {Labels: []string{"Vues"}},
				generic.FieldRating:     {Labels: []string{"Note"}},
			},
			UnknownPerson: "Unknown",
			Status: generic.StatusRule{
				Map: []generic.StatusMatch{
					{Text: "Ongoing", Exact: true, Status: model.StatusOngoing},
					{Text: "Completed", Exact: true, Status: model.StatusCompleted},
				},
				Default: model.StatusUnknown,
			},
			Rating:      generic.RatingRule{Mode: generic.RatingSubstring, Offset: 11, Length: 3},
			Description: ".well > p",
			TagGroups:   []generic.GroupRule{{ID: "0", Label: "genres"}},
			// the site repeats categories in its tag list; kept as listed
			DedupeTags: false,
		},
		Chapters: generic.ChapterSelectors{
			Row:        ".chapters li:not(.volume)",
			Link:       "a",
			ID:         generic.FromHref,
			Number:     generic.FromHrefLastSegment,
			NamePrefix: "Chapitre ",
			Date:       ".date-chapter-title-rtl",
		},
		Pages: generic.PageSelectors{
			Image: ".viewer-cnt #all img",
			Attrs: []string{"data-src"},
		},
		Search: generic.SearchSelectors{
			Tiles: generic.TileSelectors{
				Row:       ".media",
				Link:      "h5 a",
				IDSegment: 4,
				Title:     "h5",
				Thumbnail: thumbnail,
				Subtitle: generic.SubtitleRule{
					Kind:     generic.SubtitleText,
					Selector: "a",
					Index:    2,
					Strip:    "#",
					Prefix:   "Chapitre ",
				},
			},
			Pagination: ".pagination li",
		},
		Home:    HomeBlocks(thumbnail),
		Tags:    generic.TagSelectors{Link: ".list-category a", GroupID: "0", GroupLabel: "genres"},
		Updates: UpdateSelectors(),
	}
}

// HomeBlocks is the landing page layout of the reader CMS. thumb is the
// cover template of the site.
func HomeBlocks(thumb string) []generic.HomeBlock {
	return []generic.HomeBlock{
		{
			ID:    "latest_popular_manga",
			Title: "Dernier Manga Populaire Sorti",
			Tiles: generic.TileSelectors{
				Row:       ".hot-thumbnails li",
				Link:      "a",
				IDSegment: 4,
				Title:     ".manga-name a",
				Thumbnail: thumb,
				Subtitle:  generic.SubtitleRule{Kind: generic.SubtitleReverseToken, Selector: "p", Arg: 1, Prefix: "Chapitre "},
			},
		},
		{
			ID:    "latest_updates",
			Title: "Dernier Manga Sorti",
			Tiles: generic.TileSelectors{
				Row:       ".mangalist .manga-item",
				Link:      "a",
				IDSegment: -1,
				Title:     "a",
				Thumbnail: thumb,
				Subtitle:  generic.SubtitleRule{Kind: generic.SubtitleRegex, Selector: "a", Index: 1, Pattern: `\d+(?:\.\d+)?`, Prefix: "Chapitre "},
			},
		},
		{
			ID:    "top_manga",
			Title: "Top MANGA",
			Tiles: generic.TileSelectors{
				Scope:     ".panel.panel-success",
				Row:       "ul .list-group-item",
				Link:      "a",
				IDSegment: -1,
				Title:     "strong",
				Thumbnail: thumb,
				Subtitle:  generic.SubtitleRule{Kind: generic.SubtitleLine, Selector: ".media-body", Arg: 2, GroupThousands: true, Prefix: "👀 "},
			},
		},
	}
}

func UpdateSelectors() generic.UpdateSelectors {
	return generic.UpdateSelectors{
		Row:       ".mangalist .manga-item",
		Link:      "a",
		IDSegment: -1,
		Date:      ".pull-right",
	}
}

func New(fetcher providers.Fetcher, opts site.Options) (*site.Client, error) {
	return site.New(Config(), fetcher, opts)
}
