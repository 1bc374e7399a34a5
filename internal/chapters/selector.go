package chapters

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Filter applies at most one selection: a single chapter, a number range or
// a list of labels. With none set every chapter is returned.
func Filter(all []Chapter, chapter, rng, list string) ([]Chapter, error) {
	switch {
	case chapter != "":
		out := FilterChaptersByLabel(all, chapter)
		if len(out) == 0 {
			return nil, fmt.Errorf("chapter %q not found", chapter)
		}

		return out, nil
	case rng != "":
		return FilterChapterRange(all, rng)
	case list != "":
		return FilterChapterList(all, list), nil
	}

	return all, nil
}

func FilterChaptersByLabel(all []Chapter, label string) []Chapter {
	label = strings.TrimSpace(label)

	var out []Chapter
	for _, ch := range all {
		if ch.Label() == label || ch.ID == label {
			out = append(out, ch)
		}
	}

	return out
}

// FilterChapterRange keeps chapters numbered within start-end, inclusive.
func FilterChapterRange(all []Chapter, rng string) ([]Chapter, error) {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range %q, want start-end", rng)
	}

	start, err1 := parseNumber(parts[0])
	end, err2 := parseNumber(parts[1])
	if err1 != nil || err2 != nil || start > end {
		return nil, fmt.Errorf("invalid range %q, want start-end", rng)
	}

	out := []Chapter{}
	for _, ch := range all {
		if math.IsNaN(ch.Number) {
			continue
		}
		if ch.Number >= start && ch.Number <= end {
			out = append(out, ch)
		}
	}

	return out, nil
}

// FilterChapterList keeps chapters matching any comma separated label, in
// list order. Unknown labels are ignored.
func FilterChapterList(all []Chapter, list string) []Chapter {
	out := []Chapter{}
	for _, label := range strings.Split(list, ",") {
		if strings.TrimSpace(label) == "" {
			continue
		}
		out = append(out, FilterChaptersByLabel(all, label)...)
	}

	return out
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
