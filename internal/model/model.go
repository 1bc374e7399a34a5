// Package model defines the records produced by the source extractors.
//
// Records are plain values built fresh for every request. The New*
// constructors take a field struct, validate it and return the record; the
// extractors never build records any other way.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const LanguageFrench = "fr"

var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrNoPages       = errors.New("chapter has no pages")
)

type Tag struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

type TagGroup struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Tags  []Tag  `yaml:"tags" json:"tags"`
}

type Manga struct {
	ID          string     `yaml:"id" json:"id"`
	Titles      []string   `yaml:"titles" json:"titles"`
	Image       string     `yaml:"image" json:"image"`
	Rating      float64    `yaml:"rating" json:"rating"`
	Status      Status     `yaml:"status" json:"status"`
	Author      string     `yaml:"author" json:"author"`
	Artist      string     `yaml:"artist" json:"artist"`
	Views       int        `yaml:"views" json:"views"`
	Description string     `yaml:"description" json:"description"`
	Tags        []TagGroup `yaml:"tags" json:"tags"`
	Hentai      bool       `yaml:"hentai" json:"hentai"`
}

// Title is the primary title.
func (m Manga) Title() string {
	if len(m.Titles) == 0 {
		return ""
	}

	return m.Titles[0]
}

type Chapter struct {
	ID        string    `yaml:"id" json:"id"`
	MangaID   string    `yaml:"manga_id" json:"mangaId"`
	Name      string    `yaml:"name,omitempty" json:"name,omitempty"`
	Number    float64   `yaml:"number" json:"number"`
	Published time.Time `yaml:"published" json:"published"`
	Language  string    `yaml:"language" json:"language"`
}

type ChapterDetails struct {
	ID        string   `yaml:"id" json:"id"`
	MangaID   string   `yaml:"manga_id" json:"mangaId"`
	Pages     []string `yaml:"pages" json:"pages"`
	LongStrip bool     `yaml:"long_strip" json:"longStrip"`
}

type Tile struct {
	ID       string `yaml:"id" json:"id"`
	Image    string `yaml:"image" json:"image"`
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
}

type HomeSection struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Items []Tile `yaml:"items" json:"items"`
}

// PagedTiles is one page of search results. NextPage is 0 when the listing
// has no further page.
type PagedTiles struct {
	Results  []Tile `yaml:"results" json:"results"`
	NextPage int    `yaml:"next_page,omitempty" json:"nextPage,omitempty"`
}

// UpdateBatch carries the tracked ids found on one page of the update feed.
type UpdateBatch struct {
	Page int      `yaml:"page" json:"page"`
	IDs  []string `yaml:"ids" json:"ids"`
}

type MangaFields struct {
	ID          string
	Titles      []string
	Image       string
	Rating      float64
	Status      Status
	Author      string
	Artist      string
	Views       int
	Description string
	Tags        []TagGroup
}

func NewManga(f MangaFields) (Manga, error) {
	if strings.TrimSpace(f.ID) == "" {
		return Manga{}, fmt.Errorf("%w: manga id is required", ErrInvalidRecord)
	}
	if len(f.Titles) == 0 || strings.TrimSpace(f.Titles[0]) == "" {
		return Manga{}, fmt.Errorf("%w: manga %q has no title", ErrInvalidRecord, f.ID)
	}

	views := f.Views
	if views < 0 {
		views = 0
	}

	tags := f.Tags
	if tags == nil {
		tags = []TagGroup{}
	}

	return Manga{
		ID:          f.ID,
		Titles:      f.Titles,
		Image:       f.Image,
		Rating:      f.Rating,
		Status:      f.Status,
		Author:      f.Author,
		Artist:      f.Artist,
		Views:       views,
		Description: f.Description,
		Tags:        tags,
		Hentai:      false,
	}, nil
}

type ChapterFields struct {
	ID        string
	MangaID   string
	Name      string
	Number    float64
	Published time.Time
}

func NewChapter(f ChapterFields) (Chapter, error) {
	if strings.TrimSpace(f.ID) == "" {
		return Chapter{}, fmt.Errorf("%w: chapter id is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(f.MangaID) == "" {
		return Chapter{}, fmt.Errorf("%w: chapter %q has no manga id", ErrInvalidRecord, f.ID)
	}

	return Chapter{
		ID:        f.ID,
		MangaID:   f.MangaID,
		Name:      f.Name,
		Number:    f.Number,
		Published: f.Published,
		Language:  LanguageFrench,
	}, nil
}

func NewChapterDetails(id, mangaID string, pages []string) (ChapterDetails, error) {
	if len(pages) == 0 {
		return ChapterDetails{}, fmt.Errorf("%w: chapter %q of %q", ErrNoPages, id, mangaID)
	}

	return ChapterDetails{
		ID:        id,
		MangaID:   mangaID,
		Pages:     pages,
		LongStrip: false,
	}, nil
}

func NewTile(t Tile) (Tile, error) {
	if strings.TrimSpace(t.ID) == "" {
		return Tile{}, fmt.Errorf("%w: tile id is required", ErrInvalidRecord)
	}

	return t, nil
}

func NewTagGroup(id, label string, tags []Tag) TagGroup {
	if tags == nil {
		tags = []Tag{}
	}

	return TagGroup{ID: id, Label: label, Tags: tags}
}

func NewHomeSection(id, title string, items []Tile) HomeSection {
	if items == nil {
		items = []Tile{}
	}

	return HomeSection{ID: id, Title: title, Items: items}
}
