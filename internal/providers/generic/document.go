package generic

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/textutil"
)

func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// firstText is the decoded text of the first match of sel under s.
func firstText(s *goquery.Selection, sel string) string {
	if sel == "" {
		return textutil.Decode(s.Text())
	}

	return textutil.Decode(s.Find(sel).First().Text())
}

func attr(s *goquery.Selection, name string) (string, bool) {
	v, ok := s.Attr(name)
	if !ok {
		return "", false
	}

	v = strings.TrimSpace(v)

	return v, v != ""
}

func thumbnail(tmpl, id string) string {
	return strings.ReplaceAll(tmpl, "{id}", id)
}
