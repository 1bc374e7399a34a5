package generic

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/textutil"
)

// ExtractTagGroups reads the site-wide category list into a single group.
func ExtractTagGroups(doc *goquery.Document, sel Selectors) []model.TagGroup {
	t := sel.Tags
	tags := []model.Tag{}

	doc.Find(t.Link).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		id, _ := textutil.Segment(href, -1)
		label := textutil.Capitalize(textutil.Decode(a.Text()))
		if label == "" {
			return
		}

		tags = append(tags, model.Tag{ID: id, Label: label})
	})

	return []model.TagGroup{model.NewTagGroup(t.GroupID, t.GroupLabel, tags)}
}
