package generic

import (
	"fmt"
	"strings"

	"github.com/brogergvhs/mangasrc/internal/model"
)

// Field keys of the labeled details panel.
const (
	FieldAuthor     = "author"
	FieldArtist     = "artist"
	FieldAltNames   = "alt_names"
	FieldCategories = "categories"
	FieldTags       = "tags"
	FieldStatus     = "status"
	FieldViews      = "views"
	FieldRating     = "rating"
)

var fieldOrder = []string{
	FieldAuthor, FieldArtist, FieldAltNames, FieldCategories,
	FieldTags, FieldStatus, FieldViews, FieldRating,
}

const (
	MatchContains = "contains"
	MatchExact    = "exact"
)

const (
	RatingSubstring = "substring"
	RatingDataAttr  = "data_attr"
)

// Chapter id and number strategies.
const (
	FromHref            = "href"
	FromHrefLastSegment = "href_last_segment"
	FromLastToken       = "last_token"
)

// Subtitle rule kinds.
const (
	SubtitleText         = "text"
	SubtitleLastToken    = "last_token"
	SubtitleReverseToken = "reverse_token"
	SubtitleRegex        = "regex"
	SubtitleLine         = "line"
)

type Selectors struct {
	Details  DetailSelectors  `yaml:"details"`
	Chapters ChapterSelectors `yaml:"chapters"`
	Pages    PageSelectors    `yaml:"pages"`
	Search   SearchSelectors  `yaml:"search"`
	Home     []HomeBlock      `yaml:"home"`
	Tags     TagSelectors     `yaml:"tags"`
	Updates  UpdateSelectors  `yaml:"updates"`
}

type DetailSelectors struct {
	Title           string `yaml:"title"`
	TitleTrimPrefix string `yaml:"title_trim_prefix"`
	Cover           string `yaml:"cover"`
	CoverAttr       string `yaml:"cover_attr"`
	ForceHTTPS      bool   `yaml:"force_https"`

	PanelLabel string               `yaml:"panel_label"`
	LabelMatch string               `yaml:"label_match"`
	Fields     map[string]FieldRule `yaml:"fields"`

	UnknownPerson string     `yaml:"unknown_person"`
	Status        StatusRule `yaml:"status"`
	Rating        RatingRule `yaml:"rating"`

	Description     string `yaml:"description"`
	DescriptionNext bool   `yaml:"description_next"`

	TagGroups  []GroupRule `yaml:"tag_groups"`
	DedupeTags bool        `yaml:"dedupe_tags"`
}

type FieldRule struct {
	Labels     []string `yaml:"labels"`
	Value      string   `yaml:"value"`
	Split      string   `yaml:"split"`
	Links      bool     `yaml:"links"`
	Capitalize bool     `yaml:"capitalize"`
}

type StatusRule struct {
	Map     []StatusMatch `yaml:"map"`
	Default model.Status  `yaml:"default"`
}

type StatusMatch struct {
	Text   string       `yaml:"text"`
	Exact  bool         `yaml:"exact"`
	Status model.Status `yaml:"status"`
}

type RatingRule struct {
	Mode     string `yaml:"mode"`
	Selector string `yaml:"selector"`
	Attr     string `yaml:"attr"`
	Offset   int    `yaml:"offset"`
	Length   int    `yaml:"length"`
}

type GroupRule struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type ChapterSelectors struct {
	Row          string `yaml:"row"`
	Link         string `yaml:"link"`
	ID           string `yaml:"id"`
	Number       string `yaml:"number"`
	NamePrefix   string `yaml:"name_prefix"`
	NameSelector string `yaml:"name_selector"`
	Date         string `yaml:"date"`
}

type PageSelectors struct {
	Image      string   `yaml:"image"`
	Attrs      []string `yaml:"attrs"`
	ForceHTTPS bool     `yaml:"force_https"`
}

type SearchSelectors struct {
	Tiles      TileSelectors `yaml:"tiles"`
	Pagination string        `yaml:"pagination"`
}

type TileSelectors struct {
	Scope     string       `yaml:"scope"`
	Row       string       `yaml:"row"`
	Link      string       `yaml:"link"`
	IDSegment int          `yaml:"id_segment"`
	Title     string       `yaml:"title"`
	Thumbnail string       `yaml:"thumbnail"`
	Subtitle  SubtitleRule `yaml:"subtitle"`
}

type SubtitleRule struct {
	Kind           string `yaml:"kind"`
	Selector       string `yaml:"selector"`
	Index          int    `yaml:"index"`
	Arg            int    `yaml:"arg"`
	Pattern        string `yaml:"pattern"`
	Strip          string `yaml:"strip"`
	Prefix         string `yaml:"prefix"`
	GroupThousands bool   `yaml:"group_thousands"`
}

type HomeBlock struct {
	ID    string        `yaml:"id"`
	Title string        `yaml:"title"`
	Tiles TileSelectors `yaml:"tiles"`
}

type TagSelectors struct {
	Link       string `yaml:"link"`
	GroupID    string `yaml:"group_id"`
	GroupLabel string `yaml:"group_label"`
}

type UpdateSelectors struct {
	Row       string `yaml:"row"`
	Link      string `yaml:"link"`
	IDSegment int    `yaml:"id_segment"`
	Date      string `yaml:"date"`
}

// Validate checks the parts every site needs. Optional blocks (home, tags,
// updates, markup search) are validated by the operation that uses them.
func (s *Selectors) Validate() error {
	var missing []string

	if strings.TrimSpace(s.Details.Title) == "" {
		missing = append(missing, "details.title")
	}
	if strings.TrimSpace(s.Details.PanelLabel) == "" {
		missing = append(missing, "details.panel_label")
	}
	if strings.TrimSpace(s.Chapters.Row) == "" {
		missing = append(missing, "chapters.row")
	}
	if strings.TrimSpace(s.Pages.Image) == "" {
		missing = append(missing, "pages.image")
	}
	if len(s.Pages.Attrs) == 0 {
		missing = append(missing, "pages.attrs")
	}

	switch s.Details.LabelMatch {
	case "":
		s.Details.LabelMatch = MatchContains
	case MatchContains, MatchExact:
	default:
		return fmt.Errorf("details.label_match: unknown mode %q", s.Details.LabelMatch)
	}

	switch s.Details.Rating.Mode {
	case "", RatingSubstring, RatingDataAttr:
	default:
		return fmt.Errorf("details.rating.mode: unknown mode %q", s.Details.Rating.Mode)
	}

	if s.Details.CoverAttr == "" {
		s.Details.CoverAttr = "src"
	}
	if s.Chapters.Link == "" {
		s.Chapters.Link = "a"
	}
	if s.Chapters.ID == "" {
		s.Chapters.ID = FromHref
	}
	if s.Chapters.Number == "" {
		s.Chapters.Number = FromHrefLastSegment
	}
	if len(s.Details.TagGroups) == 0 {
		s.Details.TagGroups = []GroupRule{{ID: "0", Label: "genres"}}
	}

	if len(missing) > 0 {
		return fmt.Errorf("selectors missing: %s", strings.Join(missing, ", "))
	}

	return nil
}
