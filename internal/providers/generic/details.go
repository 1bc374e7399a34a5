package generic

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/textutil"
)

// ExtractManga reads a manga details page.
//
// Missing fields fall back to their defaults; only an empty manga id is an
// error. When the title node is absent the id stands in as the title so the
// titles list is never empty.
func ExtractManga(doc *goquery.Document, mangaID string, sel Selectors) (model.Manga, error) {
	d := sel.Details

	title := firstText(doc.Selection, d.Title)
	if d.TitleTrimPrefix != "" {
		title = strings.TrimSpace(strings.Replace(title, d.TitleTrimPrefix, "", 1))
	}
	if title == "" {
		title = mangaID
	}
	titles := []string{title}

	values := panelValues(doc, d)

	if v, ok := values[FieldAltNames]; ok {
		rule := d.Fields[FieldAltNames]
		for _, alt := range textutil.SplitList(v.Text(), splitOr(rule.Split, ",")) {
			titles = append(titles, textutil.Decode(alt))
		}
	}

	author := personValue(values, FieldAuthor, d.UnknownPerson)
	artist := personValue(values, FieldArtist, d.UnknownPerson)

	status := d.Status.Default
	if v, ok := values[FieldStatus]; ok {
		status = matchStatus(strings.TrimSpace(v.Text()), d.Status)
	}

	views := 0
	if v, ok := values[FieldViews]; ok {
		views = textutil.ParseCount(v.Text())
	}

	return model.NewManga(model.MangaFields{
		ID:          mangaID,
		Titles:      titles,
		Image:       coverURL(doc, d),
		Rating:      rating(doc, values, d.Rating),
		Status:      status,
		Author:      author,
		Artist:      artist,
		Views:       views,
		Description: description(doc, d),
		Tags:        tagGroups(values, d),
	})
}

// UnknownLabels lists panel labels that match no field of the vocabulary.
// They are dropped by ExtractManga; hosts log them to spot new site fields.
func UnknownLabels(doc *goquery.Document, sel Selectors) []string {
	d := sel.Details
	out := []string{}

	doc.Find(d.PanelLabel).Each(func(_ int, dt *goquery.Selection) {
		label := strings.TrimSpace(dt.Text())
		if label == "" {
			return
		}
		for _, field := range fieldOrder {
			if labelMatches(label, d.Fields[field].Labels, d.LabelMatch) {
				return
			}
		}
		out = append(out, label)
	})

	return out
}

// panelValues maps each known field to the value node following its label.
// The first matching label wins.
func panelValues(doc *goquery.Document, d DetailSelectors) map[string]*goquery.Selection {
	values := map[string]*goquery.Selection{}

	doc.Find(d.PanelLabel).Each(func(_ int, dt *goquery.Selection) {
		label := strings.TrimSpace(dt.Text())

		for _, field := range fieldOrder {
			rule, ok := d.Fields[field]
			if !ok || !labelMatches(label, rule.Labels, d.LabelMatch) {
				continue
			}
			if _, seen := values[field]; seen {
				return
			}

			v := dt.Next()
			if rule.Value != "" {
				v = v.Find(rule.Value)
			}
			values[field] = v

			return
		}
	})

	return values
}

func labelMatches(label string, vocabulary []string, mode string) bool {
	for _, want := range vocabulary {
		if mode == MatchExact {
			if label == want {
				return true
			}
			continue
		}
		if strings.Contains(label, want) {
			return true
		}
	}

	return false
}

func personValue(values map[string]*goquery.Selection, field, fallback string) string {
	v, ok := values[field]
	if !ok {
		return fallback
	}

	name := textutil.Decode(v.Text())
	if name == "" {
		return fallback
	}

	return name
}

func matchStatus(text string, rule StatusRule) model.Status {
	for _, m := range rule.Map {
		if m.Exact && text == m.Text {
			return m.Status
		}
		if !m.Exact && strings.Contains(text, m.Text) {
			return m.Status
		}
	}

	return rule.Default
}

func coverURL(doc *goquery.Document, d DetailSelectors) string {
	if d.Cover == "" {
		return ""
	}

	src, ok := attr(doc.Find(d.Cover).First(), d.CoverAttr)
	if !ok {
		return ""
	}
	if d.ForceHTTPS {
		return textutil.ForceHTTPS(src)
	}

	return textutil.EnsureHTTPS(src)
}

func rating(doc *goquery.Document, values map[string]*goquery.Selection, r RatingRule) float64 {
	switch r.Mode {
	case RatingDataAttr:
		v, ok := attr(doc.Find(r.Selector).First(), r.Attr)
		if !ok {
			return 0
		}

		return textutil.ParseRating(v)
	case RatingSubstring:
		v, ok := values[FieldRating]
		if !ok {
			return 0
		}
		text := strings.TrimSpace(v.Children().Text())

		return textutil.ParseRating(textutil.Substring(text, r.Offset, r.Length))
	}

	return 0
}

func description(doc *goquery.Document, d DetailSelectors) string {
	if d.Description == "" {
		return ""
	}

	node := doc.Find(d.Description)
	if d.DescriptionNext {
		node = node.First().Next()
	}

	return textutil.Decode(node.Text())
}

func tagGroups(values map[string]*goquery.Selection, d DetailSelectors) []model.TagGroup {
	var tags []model.Tag

	add := func(tag model.Tag) {
		if tag.Label == "" {
			return
		}
		if d.DedupeTags {
			for _, t := range tags {
				if t.ID == tag.ID {
					return
				}
			}
		}
		tags = append(tags, tag)
	}

	for _, field := range []string{FieldCategories, FieldTags} {
		v, ok := values[field]
		if !ok {
			continue
		}
		rule := d.Fields[field]

		if rule.Links {
			v.Find("a").Each(func(_ int, a *goquery.Selection) {
				label := textutil.Decode(a.Text())
				href, _ := a.Attr("href")
				id, ok := textutil.Segment(href, -1)
				if !ok {
					id = textutil.Slugify(label)
				}
				if rule.Capitalize {
					label = textutil.Capitalize(label)
				}
				add(model.Tag{ID: id, Label: label})
			})
			continue
		}

		for _, raw := range textutil.SplitList(v.Text(), splitOr(rule.Split, ",")) {
			decoded := textutil.Decode(raw)
			label := decoded
			if rule.Capitalize {
				label = textutil.Capitalize(label)
			}
			add(model.Tag{ID: textutil.Slugify(decoded), Label: label})
		}
	}

	groups := make([]model.TagGroup, 0, len(d.TagGroups))
	for i, g := range d.TagGroups {
		var members []model.Tag
		if i == 0 {
			members = tags
		}
		groups = append(groups, model.NewTagGroup(g.ID, g.Label, members))
	}

	return groups
}

func splitOr(sep, fallback string) string {
	if sep == "" {
		return fallback
	}

	return sep
}
