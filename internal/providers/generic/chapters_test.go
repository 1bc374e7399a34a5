package generic

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/brogergvhs/mangasrc/internal/model"
	"github.com/brogergvhs/mangasrc/internal/textutil"
)

const chaptersPage = `
<ul class="chapters">
  <li class="volume"><h3>Volume 2</h3></li>
  <li>
    <h5 class="chapter-title-rtl"><a href="https://scanmanga-vf.cc/manga/one-piece/1101">One Piece 1101</a></h5>
    <div class="date-chapter-title-rtl">Aujourd'hui</div>
  </li>
  <li>
    <h5 class="chapter-title-rtl"><a href="https://scanmanga-vf.cc/manga/one-piece/1100.5">One Piece 1100.5</a></h5>
    <div class="date-chapter-title-rtl">15/03/2022</div>
  </li>
  <li class="volume"><h3>Volume 1</h3></li>
  <li>
    <h5 class="chapter-title-rtl"><a href="https://scanmanga-vf.cc/manga/one-piece/extra">One Piece Extra</a></h5>
    <div class="date-chapter-title-rtl"></div>
  </li>
</ul>`

func TestExtractChaptersKeepsDocumentOrder(t *testing.T) {
	sel := cmsSelectors(t)

	chapters, err := ExtractChapters(mustParse(t, chaptersPage), "one-piece", sel, fixedNow)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	// 5 rows, 2 of them volume markers
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}

	first := chapters[0]
	if first.ID != "https://scanmanga-vf.cc/manga/one-piece/1101" {
		t.Fatalf("unexpected id %q", first.ID)
	}
	if first.Number != 1101 || first.Name != "Chapitre 1101" {
		t.Fatalf("unexpected number/name %v %q", first.Number, first.Name)
	}
	if first.MangaID != "one-piece" || first.Language != model.LanguageFrench {
		t.Fatalf("unexpected chapter %+v", first)
	}
	if want := time.Date(2024, time.June, 10, 14, 35, 0, 0, time.UTC); !first.Published.Equal(want) {
		t.Fatalf("expected %v, got %v", want, first.Published)
	}

	if chapters[1].Number != 1100.5 {
		t.Fatalf("expected 1100.5, got %v", chapters[1].Number)
	}
	if want := time.Date(2022, time.March, 15, 0, 0, 0, 0, time.UTC); !chapters[1].Published.Equal(want) {
		t.Fatalf("expected %v, got %v", want, chapters[1].Published)
	}

	if !math.IsNaN(chapters[2].Number) {
		t.Fatalf("expected NaN number for a non numeric chapter, got %v", chapters[2].Number)
	}
	if want := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC); !chapters[2].Published.Equal(want) {
		t.Fatalf("expected start of day for empty date, got %v", chapters[2].Published)
	}
}

func TestExtractChaptersLastTokenStrategy(t *testing.T) {
	sel := cmsSelectors(t)
	sel.Chapters = ChapterSelectors{
		Row:          "ul.chapterszozo li",
		Link:         ".chapter-title-rtlrr a",
		ID:           FromLastToken,
		Number:       FromLastToken,
		NameSelector: ".chapter-title-rtlrr em",
		Date:         ".date-chapter-title-rtl",
	}

	page := `
<ul class="chapterszozo">
  <li>
    <h5 class="chapter-title-rtlrr"><a href="https://scan-fr.cc/manga/berserk/374">Berserk 374</a> : <em>Le ciel</em></h5>
    <div class="date-chapter-title-rtl">03 Jan. 2024</div>
  </li>
</ul>`

	chapters, err := ExtractChapters(mustParse(t, page), "berserk", sel, fixedNow)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(chapters))
	}

	c := chapters[0]
	if c.ID != "374" || c.Number != 374 || c.Name != "Le ciel" {
		t.Fatalf("unexpected chapter %+v", c)
	}
	if want := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC); !c.Published.Equal(want) {
		t.Fatalf("expected %v, got %v", want, c.Published)
	}
}

func TestExtractChaptersKeepsRowsWithBadDates(t *testing.T) {
	sel := cmsSelectors(t)

	page := `<ul class="chapters">
<li><a href="/manga/x/2">X 2</a><span class="date-chapter-title-rtl">31/02/2022</span></li>
<li><a href="/manga/x/1">X 1</a><span class="date-chapter-title-rtl">03/01/2022</span></li>
</ul>`
	chapters, err := ExtractChapters(mustParse(t, page), "x", sel, fixedNow)
	if !errors.Is(err, textutil.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("expected both chapters, got %d", len(chapters))
	}
	if !chapters[0].Published.IsZero() {
		t.Fatalf("bad date should leave Published zero, got %v", chapters[0].Published)
	}
	if want := time.Date(2022, time.January, 3, 0, 0, 0, 0, time.UTC); !chapters[1].Published.Equal(want) {
		t.Fatalf("expected %v, got %v", want, chapters[1].Published)
	}
}

func TestExtractChaptersEmptyDocument(t *testing.T) {
	sel := cmsSelectors(t)

	chapters, err := ExtractChapters(mustParse(t, `<html></html>`), "x", sel, fixedNow)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(chapters) != 0 {
		t.Fatalf("expected no chapters, got %d", len(chapters))
	}
}

const readerPage = `
<div class="viewer-cnt">
  <div id="all">
    <img data-src=" //cdn.example/one-piece/1101/01.jpg ">
    <img data-src="https://cdn.example/one-piece/1101/02.jpg">
    <img src="https://cdn.example/ads/banner.jpg">
    <img data-src="/uploads/one-piece/1101/03.jpg">
    <img data-src="http://cdn.example/one-piece/1101/04.jpg">
  </div>
</div>`

func TestExtractPagesSkipsImagesWithoutLazySource(t *testing.T) {
	sel := cmsSelectors(t)

	details, err := ExtractPages(mustParse(t, readerPage), "one-piece", "1101", "https://scanmanga-vf.cc", sel)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := []string{
		"https://cdn.example/one-piece/1101/01.jpg",
		"https://cdn.example/one-piece/1101/02.jpg",
		"https://scanmanga-vf.cc/uploads/one-piece/1101/03.jpg",
		"https://cdn.example/one-piece/1101/04.jpg",
	}
	if len(details.Pages) != len(want) {
		t.Fatalf("expected %d pages, got %d: %v", len(want), len(details.Pages), details.Pages)
	}
	for i := range want {
		if details.Pages[i] != want[i] {
			t.Fatalf("page %d: expected %s, got %s", i, want[i], details.Pages[i])
		}
	}
	if details.LongStrip {
		t.Fatal("long strip must stay false")
	}
}

func TestExtractPagesResolvesRelativePaths(t *testing.T) {
	sel := cmsSelectors(t)

	page := `<div class="viewer-cnt"><div id="all"><img data-src="uploads/manga/one-piece/chapters/1101/01.jpg"></div></div>`
	details, err := ExtractPages(mustParse(t, page), "one-piece", "1101", "https://scanmanga-vf.cc", sel)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := "https://scanmanga-vf.cc/uploads/manga/one-piece/chapters/1101/01.jpg"
	if len(details.Pages) != 1 || details.Pages[0] != want {
		t.Fatalf("expected [%s], got %v", want, details.Pages)
	}
}

func TestExtractPagesAttributeFallback(t *testing.T) {
	sel := cmsSelectors(t)
	sel.Pages.Attrs = []string{"url", "data-src"}

	page := `<div class="viewer-cnt"><div id="all"><img url="//a/1.jpg"><img data-src="//a/2.jpg"></div></div>`
	details, err := ExtractPages(mustParse(t, page), "m", "c", "", sel)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(details.Pages) != 2 || details.Pages[0] != "https://a/1.jpg" || details.Pages[1] != "https://a/2.jpg" {
		t.Fatalf("unexpected pages %v", details.Pages)
	}
}

func TestExtractPagesEmptyIsAnError(t *testing.T) {
	sel := cmsSelectors(t)

	_, err := ExtractPages(mustParse(t, `<div class="viewer-cnt"><div id="all"><img src="x.jpg"></div></div>`), "m", "c", "", sel)
	if !errors.Is(err, model.ErrNoPages) {
		t.Fatalf("expected ErrNoPages, got %v", err)
	}
}
