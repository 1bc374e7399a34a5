package generic

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/textutil"
)

// ExtractPages collects the lazy-loaded page images of a reader page in
// reading order. Images carrying none of the configured attributes are
// skipped; a page without any usable image yields model.ErrNoPages.
func ExtractPages(doc *goquery.Document, mangaID, chapterID, base string, sel Selectors) (model.ChapterDetails, error) {
	p := sel.Pages
	pages := []string{}

	doc.Find(p.Image).Each(func(_ int, img *goquery.Selection) {
		for _, name := range p.Attrs {
			src, ok := attr(img, name)
			if !ok {
				continue
			}

			u := textutil.Absolute(base, src)
			if p.ForceHTTPS {
				u = textutil.ForceHTTPS(u)
			}
			pages = append(pages, u)

			return
		}
	})

	return model.NewChapterDetails(chapterID, mangaID, pages)
}
