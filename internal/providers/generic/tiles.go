package generic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/textutil"
)

// ExtractTiles reads a listing block into tiles, in document order.
// Rows without a usable id are skipped.
func ExtractTiles(doc *goquery.Document, ts TileSelectors) ([]model.Tile, error) {
	root := doc.Selection
	if ts.Scope != "" {
		root = doc.Find(ts.Scope).First()
	}

	var re *regexp.Regexp
	if ts.Subtitle.Kind == SubtitleRegex {
		var err error
		re, err = regexp.Compile(ts.Subtitle.Pattern)
		if err != nil {
			return nil, fmt.Errorf("subtitle pattern %q: %w", ts.Subtitle.Pattern, err)
		}
	}

	out := []model.Tile{}
	root.Find(ts.Row).Each(func(_ int, row *goquery.Selection) {
		link := row
		if ts.Link != "" {
			link = row.Find(ts.Link).First()
		}
		href, _ := attr(link, "href")
		id, ok := textutil.Segment(href, ts.IDSegment)
		if !ok {
			return
		}

		tile, err := model.NewTile(model.Tile{
			ID:       id,
			Image:    thumbnail(ts.Thumbnail, id),
			Title:    firstText(row, ts.Title),
			Subtitle: subtitle(row, ts.Subtitle, re),
		})
		if err != nil {
			return
		}
		out = append(out, tile)
	})

	return out, nil
}

func subtitle(row *goquery.Selection, r SubtitleRule, re *regexp.Regexp) string {
	if r.Kind == "" {
		return ""
	}

	node := row
	if r.Selector != "" {
		node = row.Find(r.Selector).Eq(r.Index)
	}
	raw := node.Text()

	var piece string
	switch r.Kind {
	case SubtitleText:
		piece = strings.TrimSpace(raw)
	case SubtitleLastToken:
		piece = textutil.LastToken(raw)
	case SubtitleReverseToken:
		piece = textutil.TokenFromEnd(raw, r.Arg)
	case SubtitleRegex:
		piece = re.FindString(strings.TrimSpace(raw))
	case SubtitleLine:
		piece = textutil.Line(raw, r.Arg)
	}

	for _, c := range r.Strip {
		piece = strings.ReplaceAll(piece, string(c), "")
	}
	piece = textutil.Decode(piece)
	if r.GroupThousands {
		piece = textutil.GroupThousands(piece)
	}
	if piece == "" {
		return ""
	}

	return r.Prefix + piece
}

// IsLastPage reports whether the last element of the pagination control is
// disabled.
func IsLastPage(doc *goquery.Document, pagination string) bool {
	return doc.Find(pagination).Last().HasClass("disabled")
}

type suggestions struct {
	Suggestions []struct {
		Value string `json:"value"`
		Data  string `json:"data"`
	} `json:"suggestions"`
}

// ErrNotSuggestions is returned by ExtractSuggestions when the body is not a
// JSON object, typically an HTML interstitial or an empty answer.
var ErrNotSuggestions = errors.New("response is not a suggestions payload")

// ExtractSuggestions reads the JSON autocomplete payload some sites answer
// search requests with. thumb is a cover template where {id} is replaced by
// the entry id.
func ExtractSuggestions(body []byte, thumb string) ([]model.Tile, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		return []model.Tile{}, ErrNotSuggestions
	}

	var payload suggestions
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	out := make([]model.Tile, 0, len(payload.Suggestions))
	for _, s := range payload.Suggestions {
		tile, err := model.NewTile(model.Tile{
			ID:    strings.TrimSpace(s.Data),
			Image: thumbnail(thumb, strings.TrimSpace(s.Data)),
			Title: textutil.Decode(s.Value),
		})
		if err != nil {
			continue
		}
		out = append(out, tile)
	}

	return out, nil
}
