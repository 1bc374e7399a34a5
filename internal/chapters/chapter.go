// Package chapters names and selects chapters for the download command.
package chapters

import (
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/brogergvhs/mangasrc/internal/model"
)

var reUnderscore = regexp.MustCompile(`_+`)

type Chapter struct {
	model.Chapter
	MangaTitle string
}

// FromModel wraps a source chapter list and orders it oldest first.
// Chapters without a number keep their relative order after numbered ones.
func FromModel(mangaTitle string, list []model.Chapter) []Chapter {
	out := make([]Chapter, len(list))
	for i, c := range list {
		out[i] = Chapter{Chapter: c, MangaTitle: mangaTitle}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Number, out[j].Number
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}

		return a < b
	})

	return out
}

// Label is the chapter number as written by humans ("12", "28.5"), or the
// chapter name when the site gave no number.
func (c Chapter) Label() string {
	if math.IsNaN(c.Number) {
		if c.Name != "" {
			return c.Name
		}

		return c.ID
	}

	return strconv.FormatFloat(c.Number, 'f', -1, 64)
}

func sanitize(s string) string {
	s = strings.ToLower(s)

	repl := strings.NewReplacer(
		"•", "_",
		"-", "_",
		"—", "_",
		"–", "_",
		"/", "_",
		"\\", "_",
		".", "_",
		" ", "_",
		"'", "_",
		"(", "",
		")", "",
	)
	s = repl.Replace(s)

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			clean = append(clean, r)
		}
	}

	return strings.Trim(reUnderscore.ReplaceAllString(string(clean), "_"), "_")
}

func (c Chapter) baseName() string {
	name := "ch_" + sanitize(c.Label())
	if title := sanitize(c.MangaTitle); title != "" {
		name = title + "_" + name
	}

	return name
}

func (c Chapter) FolderName() string {
	return c.baseName() + "_tmp"
}

func (c Chapter) OutputCBZ() string {
	return c.baseName() + ".cbz"
}

func (c Chapter) OutputCBZPath(out string) string {
	return filepath.Join(out, c.OutputCBZ())
}
