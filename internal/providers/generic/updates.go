package generic

import (
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangasrc/internal/textutil"
)

type ScanPolicy string

const (
	// StopOnUntracked ends the scan once a recent entry is not tracked.
	// It assumes the feed is newest first and that the caller tracks every
	// series it cares about, which the site does not promise.
	StopOnUntracked ScanPolicy = "stop_on_untracked"
	// StopOnStale ends the scan once an entry is not newer than the cutoff.
	StopOnStale ScanPolicy = "stop_on_stale"
)

func ParseScanPolicy(s string) (ScanPolicy, error) {
	switch ScanPolicy(s) {
	case "", StopOnUntracked:
		return StopOnUntracked, nil
	case StopOnStale:
		return StopOnStale, nil
	}

	return "", fmt.Errorf("unknown scan policy %q", s)
}

// UpdatePage is the outcome of scanning one page of the update feed.
type UpdatePage struct {
	IDs      []string
	LoadMore bool
	Entries  int
	Skipped  []string
}

// ScanUpdates folds one page of the "latest updates" feed. Entries newer
// than since are collected when tracked; the policy decides when the caller
// should stop fetching further pages. Entries whose date cannot be read are
// listed in Skipped and otherwise ignored.
func ScanUpdates(doc *goquery.Document, sel Selectors, since time.Time, tracked map[string]struct{}, policy ScanPolicy, now time.Time) UpdatePage {
	u := sel.Updates
	page := UpdatePage{IDs: []string{}, LoadMore: true}

	doc.Find(u.Row).Each(func(_ int, row *goquery.Selection) {
		page.Entries++

		link := row.Find(u.Link).First()
		href, _ := attr(link, "href")
		id, _ := textutil.Segment(href, u.IDSegment)

		dateText := firstText(row, u.Date)
		at, err := textutil.ParseDate(dateText, now)
		if err != nil {
			page.Skipped = append(page.Skipped, fmt.Sprintf("%s: %q", id, dateText))
			return
		}

		if !at.After(since) {
			if policy == StopOnStale {
				page.LoadMore = false
			}
			return
		}

		if _, ok := tracked[id]; ok {
			page.IDs = append(page.IDs, id)
			return
		}
		if policy == StopOnUntracked {
			page.LoadMore = false
		}
	})

	return page
}
