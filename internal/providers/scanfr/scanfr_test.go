package scanfr

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/providers"
	"github.com/brogergvhs/mangasrc/internal/providers/site"
)

const detailsPage = `
<!DOCTYPE html>
<html>
<body>
  <h2 class="widget-title">Manga Berserk</h2>
  <div class="img-responsive"><img src="http://scan-fr.cc/uploads/manga/berserk/cover/cover_250x350.jpg"></div>
  <div id="item-rating"><div data-score="4.62"></div></div>
  <dl class="dl-horizontal">
    <dt>Auteur(s)</dt><dd><a href="/search?author=miura">MIURA Kentaro</a></dd>
    <dt>Autres noms</dt><dd>ベルセルク</dd>
    <dt>Catégories</dt><dd><a href="https://scan-fr.cc/manga-list/category/action">Action</a>, <a href="https://scan-fr.cc/manga-list/category/dark-fantasy">Dark Fantasy</a></dd>
    <dt>Statut</dt><dd><span class="label label-success">En cours</span></dd>
    <dt>Vues</dt><dd>1 234 567</dd>
    <dt>Statut (VF)</dt><dd>Complete</dd>
  </dl>
  <h5><strong>Résumé</strong></h5>
  <p>Guts, le guerrier noir.</p>
  <ul class="chapterszozo">
    <li>
      <h5 class="chapter-title-rtlrr"><a href="https://scan-fr.cc/manga/berserk/374">Berserk 374</a> : <em>Le vœu</em></h5>
      <div class="date-chapter-title-rtl">06 Sep. 2024</div>
    </li>
    <li>
      <h5 class="chapter-title-rtlrr"><a href="https://scan-fr.cc/manga/berserk/373">Berserk 373</a></h5>
      <div class="date-chapter-title-rtl">Hier</div>
    </li>
  </ul>
</body>
</html>`

type recorder struct {
	pages    map[string]string
	requests []providers.Request
}

func (r *recorder) Fetch(_ context.Context, req providers.Request) ([]byte, error) {
	r.requests = append(r.requests, req)

	body, ok := r.pages[req.URL]
	if !ok {
		return nil, fmt.Errorf("HTTP 404 for %s", req.URL)
	}

	return []byte(body), nil
}

func newClient(t *testing.T, pages map[string]string) (*site.Client, *recorder) {
	t.Helper()

	r := &recorder{pages: pages}
	c, err := New(r, site.Options{Now: func() time.Time {
		return time.Date(2024, time.September, 10, 9, 30, 0, 0, time.UTC)
	}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	return c, r
}

func TestMangaDetails(t *testing.T) {
	c, r := newClient(t, map[string]string{"https://scan-fr.cc/manga/berserk": detailsPage})

	manga, err := c.MangaDetails(context.Background(), "berserk")
	if err != nil {
		t.Fatalf("details: %v", err)
	}

	if !reflect.DeepEqual(manga.Titles, []string{"Berserk", "ベルセルク"}) {
		t.Fatalf("unexpected titles %v", manga.Titles)
	}
	if manga.Author != "MIURA Kentaro" || manga.Artist != "" {
		t.Fatalf("unexpected people %q %q", manga.Author, manga.Artist)
	}
	if manga.Views != 1234567 {
		t.Fatalf("expected views to be read, got %d", manga.Views)
	}
	if manga.Status != model.StatusOngoing {
		t.Fatalf("expected ongoing, got %s", manga.Status)
	}
	if manga.Rating != 4.62 {
		t.Fatalf("unexpected rating %v", manga.Rating)
	}
	if manga.Image != "https://scan-fr.cc/uploads/manga/berserk/cover/cover_250x350.jpg" {
		t.Fatalf("unexpected cover %s", manga.Image)
	}
	if manga.Description != "Guts, le guerrier noir." {
		t.Fatalf("unexpected description %q", manga.Description)
	}

	if len(manga.Tags) != 2 || manga.Tags[1].Label != "format" || len(manga.Tags[1].Tags) != 0 {
		t.Fatalf("unexpected tag groups %+v", manga.Tags)
	}
	want := []model.Tag{{ID: "action", Label: "Action"}, {ID: "dark-fantasy", Label: "Dark Fantasy"}}
	if !reflect.DeepEqual(manga.Tags[0].Tags, want) {
		t.Fatalf("expected %+v, got %+v", want, manga.Tags[0].Tags)
	}

	if got := r.requests[0].Cookies; len(got) != 1 || got[0].Name != "set" || got[0].Value != "h=1" {
		t.Fatalf("expected the adult content cookie, got %v", got)
	}
}

func TestStatusDefaultsToOngoing(t *testing.T) {
	page := `<h2 class="widget-title">X</h2><dl class="dl-horizontal"><dt>Statut</dt><dd><span>Abandonné</span></dd></dl>`
	c, _ := newClient(t, map[string]string{"https://scan-fr.cc/manga/x": page})

	manga, err := c.MangaDetails(context.Background(), "x")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if manga.Status != model.StatusOngoing {
		t.Fatalf("expected ongoing default, got %s", manga.Status)
	}
}

func TestChaptersUseNumbersAsIDs(t *testing.T) {
	c, _ := newClient(t, map[string]string{"https://scan-fr.cc/manga/berserk": detailsPage})

	chapters, err := c.Chapters(context.Background(), "berserk")
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}

	first := chapters[0]
	if first.ID != "374" || first.Number != 374 || first.Name != "Le vœu" {
		t.Fatalf("unexpected chapter %+v", first)
	}
	if want := time.Date(2024, time.September, 6, 0, 0, 0, 0, time.UTC); !first.Published.Equal(want) {
		t.Fatalf("expected %v, got %v", want, first.Published)
	}
	if chapters[1].Name != "" {
		t.Fatalf("expected no name, got %q", chapters[1].Name)
	}
	if want := time.Date(2024, time.September, 9, 9, 30, 0, 0, time.UTC); !chapters[1].Published.Equal(want) {
		t.Fatalf("expected %v, got %v", want, chapters[1].Published)
	}
}

func TestChapterDetailsReadsURLAttribute(t *testing.T) {
	page := `<div class="viewer-cnt"><div id="all">
<img url="//scan-fr.cc/uploads/manga/berserk/chapters/374/01.jpg">
<img data-src="http://scan-fr.cc/uploads/manga/berserk/chapters/374/02.jpg">
<img alt="credits">
</div></div>`
	c, r := newClient(t, map[string]string{"https://scan-fr.cc/manga/berserk/374": page})

	details, err := c.ChapterDetails(context.Background(), "berserk", "374")
	if err != nil {
		t.Fatalf("chapter details: %v", err)
	}

	want := []string{
		"https://scan-fr.cc/uploads/manga/berserk/chapters/374/01.jpg",
		"https://scan-fr.cc/uploads/manga/berserk/chapters/374/02.jpg",
	}
	if !reflect.DeepEqual(details.Pages, want) {
		t.Fatalf("expected %v, got %v", want, details.Pages)
	}
	if r.requests[0].URL != "https://scan-fr.cc/manga/berserk/374" {
		t.Fatalf("unexpected chapter url %s", r.requests[0].URL)
	}
}

func TestSearchAdvertisesNextPageWhileResultsCome(t *testing.T) {
	c, _ := newClient(t, map[string]string{
		"https://scan-fr.cc/search?query=vinland+saga&page=1": `{"suggestions":[{"value":"Vinland Saga","data":"vinland-saga"}]}`,
		"https://scan-fr.cc/search?query=vinland+saga&page=2": `{"suggestions":[]}`,
	})

	first, err := c.Search(context.Background(), providers.SearchQuery{Title: "vinland saga"}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if first.NextPage != 2 || first.Results[0].Image != "https://scan-fr.cc/uploads/manga/vinland-saga/cover/cover_250x350.jpg" {
		t.Fatalf("unexpected first page %+v", first)
	}

	second, err := c.Search(context.Background(), providers.SearchQuery{Title: "vinland saga"}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(second.Results) != 0 || second.NextPage != 0 {
		t.Fatalf("unexpected second page %+v", second)
	}
}

func TestSearchInterstitialYieldsNoResults(t *testing.T) {
	c, _ := newClient(t, map[string]string{
		"https://scan-fr.cc/search?query=berserk&page=1": `<html><body>Just a moment...</body></html>`,
	})

	got, err := c.Search(context.Background(), providers.SearchQuery{Title: "berserk"}, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.Results == nil || len(got.Results) != 0 || got.NextPage != 0 {
		t.Fatalf("expected an empty last page, got %+v", got)
	}
}
