package generic

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/textutil"
)

// ExtractChapters reads the chapter list embedded in a details page.
//
// Output order is document order. Volume separators are excluded by the row
// selector itself. A row whose date cannot be parsed is kept with a zero
// Published; the returned error joins every such row and wraps
// textutil.ErrInvalidDate, alongside the full list.
func ExtractChapters(doc *goquery.Document, mangaID string, sel Selectors, now time.Time) ([]model.Chapter, error) {
	c := sel.Chapters
	out := []model.Chapter{}
	var errs []error

	doc.Find(c.Row).Each(func(i int, row *goquery.Selection) {
		link := row.Find(c.Link).First()
		href, _ := attr(link, "href")
		text := textutil.Decode(link.Text())

		id := href
		if c.ID == FromLastToken {
			id = textutil.LastToken(text)
		}
		if id == "" {
			return
		}

		number := math.NaN()
		switch c.Number {
		case FromLastToken:
			number = textutil.ParseNumber(textutil.LastToken(text))
		case FromHrefLastSegment:
			if seg, ok := textutil.Segment(href, -1); ok {
				number = textutil.ParseNumber(seg)
			}
		}

		published, err := textutil.ParseDate(firstText(row, c.Date), now)
		if err != nil {
			errs = append(errs, fmt.Errorf("chapter row %d: %w", i, err))
			published = time.Time{}
		}

		chapter, err := model.NewChapter(model.ChapterFields{
			ID:        id,
			MangaID:   mangaID,
			Name:      chapterName(row, text, c),
			Number:    number,
			Published: published,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("chapter row %d: %w", i, err))
			return
		}

		out = append(out, chapter)
	})

	return out, errors.Join(errs...)
}

func chapterName(row *goquery.Selection, linkText string, c ChapterSelectors) string {
	if c.NameSelector != "" {
		return firstText(row, c.NameSelector)
	}
	if c.NamePrefix == "" {
		return ""
	}

	last := textutil.LastToken(linkText)
	if last == "" {
		return ""
	}

	return c.NamePrefix + last
}
