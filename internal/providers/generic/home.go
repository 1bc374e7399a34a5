package generic

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/model"
)

// Placeholders builds the empty sections announced before the landing page
// is parsed.
func Placeholders(blocks []HomeBlock) []model.HomeSection {
	out := make([]model.HomeSection, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, model.NewHomeSection(b.ID, b.Title, nil))
	}

	return out
}

// ExtractHome fills a copy of sections from the landing page. Each block is
// extracted on its own; blocks[i] fills sections[i].
func ExtractHome(doc *goquery.Document, sections []model.HomeSection, blocks []HomeBlock) ([]model.HomeSection, error) {
	if len(sections) != len(blocks) {
		return nil, fmt.Errorf("home: %d sections for %d blocks", len(sections), len(blocks))
	}

	out := make([]model.HomeSection, len(sections))
	for i, b := range blocks {
		tiles, err := ExtractTiles(doc, b.Tiles)
		if err != nil {
			return nil, fmt.Errorf("home block %s: %w", b.ID, err)
		}
		out[i] = model.NewHomeSection(sections[i].ID, sections[i].Title, tiles)
	}

	return out, nil
}
