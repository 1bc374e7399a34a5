// Package scanfr describes scan-fr.cc.
//
// The site runs the same reader CMS as mangascan but labels its details
// panel differently, keys chapters by number and answers searches with a JSON
// autocomplete payload that carries no pagination.
package scanfr

import (
	"net/http"

	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/providers/generic"
	"github.com/brogergvhs/mangasrc/internal/providers/mangascan"
	"github.com/brogergvhs/mangasrc/internal/providers/site"
)

const (
	Key     = "scanfr"
	BaseURL = "https://scan-fr.cc"

	thumbnail = "https://scan-fr.cc/uploads/manga/{id}/cover/cover_250x350.jpg"
)

func Config() site.Config {
	return site.Config{
		Key:     Key,
		Name:    "ScanFR",
		BaseURL: BaseURL,
		Headers: map[string]string{"Referer": BaseURL + "/"},
		Cookies: []*http.Cookie{{Name: "set", Value: "h=1"}},

		Selectors: Selectors(),

		MangaPath:    "/manga/{id}",
		ChapterPath:  "/manga/{manga}/{chapter}",
		SearchPath:   "/search?query={query}&page={page}",
		SearchFormat: site.SearchSuggestions,
		Paging:       site.PagingNonEmpty,

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
			Title:           ".widget-title",
			TitleTrimPrefix: "Manga ",
			Cover:           ".img-responsive img",
			CoverAttr:       "src",
			ForceHTTPS:      true,
			PanelLabel:      "dl.dl-horizontal dt",
			LabelMatch:      generic.MatchExact,
			Fields: map[string]generic.FieldRule{
				generic.FieldAuthor:     {Labels: []string{"Auteur(s)"}, Value: "a"},
				generic.FieldViews:      {Labels: []string{"Vues"}},
				generic.FieldAltNames:   {Labels: []string{"Autres noms"}, Split: ","},
				generic.FieldCategories: {Labels: []string{"Catégories"}, Links: true},
				generic.FieldStatus:     {Labels: []string{"Statut"}, Value: "span"},
			},
			UnknownPerson: "",
			Status: generic.StatusRule{
				Map: []generic.StatusMatch{
					{Text: "En cours", Status: model.StatusOngoing},
					{Text: "Complete", Status: model.StatusCompleted},
				},
				Default: model.StatusOngoing,
			},
			Rating:          generic.RatingRule{Mode: generic.RatingDataAttr, Selector: "#item-rating div", Attr: "data-score"},
			Description:     "h5",
			DescriptionNext: true,
			TagGroups: []generic.GroupRule{
				{ID: "0", Label: "genres"},
				{ID: "1", Label: "format"},
			},
			DedupeTags: true,
		},
		Chapters: generic.ChapterSelectors{
			Row:          "ul.chapterszozo li",
			Link:         ".chapter-title-rtlrr a",
			ID:           generic.FromLastToken,
			Number:       generic.FromLastToken,
			NameSelector: ".chapter-title-rtlrr em",
			Date:         ".date-chapter-title-rtl",
		},
		Pages: generic.PageSelectors{
			Image:      ".viewer-cnt #all img",
			Attrs:      []string{"url", "data-src"},
			ForceHTTPS: true,
		},
		Search: generic.SearchSelectors{
			Tiles: generic.TileSelectors{Thumbnail: thumbnail},
		},
		Home:    mangascan.HomeBlocks(thumbnail),
		Tags:    generic.TagSelectors{Link: ".list-category a", GroupID: "0", GroupLabel: "genres"},
		Updates: mangascan.UpdateSelectors(),
	}
}

func New(fetcher providers.Fetcher, opts site.Options) (*site.Client, error) {
	return site.New(Config(), fetcher, opts)
}
