// Package textutil holds the text normalization helpers shared by the site
// extractors: entity decoding, slugs, URL scheme fixes, token picking and
// number parsing.
package textutil

import (
	"html"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reSpaces = regexp.MustCompile(`\s+`)
	reDigits = regexp.MustCompile(`\d+`)
)

// Decode resolves HTML entities left in text nodes (sites double-encode
// accents as &#233; and friends) and trims the result.
func Decode(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// Slugify derives a tag id from its label: lowercase, spaces to hyphens.
func Slugify(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))

	return reSpaces.ReplaceAllString(s, "-")
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// EnsureHTTPS gives scheme-less image URLs the secure scheme.
// Absolute http(s) URLs are returned as they are; relative paths stay
// relative.
func EnsureHTTPS(raw string) string {
	raw = strings.TrimSpace(raw)

	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"):
		return raw
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "https:"):
		return "https://" + strings.TrimLeft(strings.TrimPrefix(raw, "https:"), "/")
	case looksLikeHost(raw):
		return "https://" + raw
	default:
		return raw
	}
}

// looksLikeHost reports whether the first path segment of a scheme-less
// reference is a host name ("cdn.example.com/a.jpg"), not a file or a
// relative directory ("01.jpg", "../a.jpg", "uploads/a.jpg").
func looksLikeHost(raw string) bool {
	first, _, found := strings.Cut(raw, "/")
	if !found || first == "" || first == "." || first == ".." {
		return false
	}

	return strings.Contains(first, ".")
}

// ForceHTTPS is EnsureHTTPS that also upgrades plain http URLs.
func ForceHTTPS(raw string) string {
	u := EnsureHTTPS(raw)
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}

	return u
}

// Segment mimics splitting href on "/" and picking one element.
// A negative index counts from the end (-1 is the last segment).
func Segment(href string, idx int) (string, bool) {
	parts := strings.Split(strings.TrimSpace(href), "/")
	if idx < 0 {
		idx = len(parts) + idx
	}
	if idx < 0 || idx >= len(parts) {
		return "", false
	}

	seg := parts[idx]

	return seg, seg != ""
}

// Tokens splits on single spaces the way the listing markup is laid out,
// keeping empty fragments out.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// LastToken returns the final whitespace separated token of s.
func LastToken(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}

	return f[len(f)-1]
}

// TokenFromEnd returns the n-th token counting from the end (0 = last).
func TokenFromEnd(s string, n int) string {
	f := strings.Fields(s)
	if n < 0 || n >= len(f) {
		return ""
	}

	return f[len(f)-1-n]
}

// SplitList splits on sep, trims and drops empty fragments.
func SplitList(s, sep string) []string {
	out := []string{}
	for _, p := range strings.Split(s, sep) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Line returns the idx-th line of s, trimmed. Missing lines yield "".
func Line(s string, idx int) string {
	lines := strings.Split(s, "\n")
	if idx < 0 || idx >= len(lines) {
		return ""
	}

	return strings.TrimSpace(lines[idx])
}

// ParseNumber parses a chapter number. Unparseable or empty input yields NaN
// so callers can tell it apart from a real chapter 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return f
}

// ParseCount parses a view counter such as "12 345" or "12,345".
// Anything unparseable is 0.
func ParseCount(s string) int {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if unicode.IsSpace(r) || r == ',' || r == '.' {
			continue
		}

		return 0
	}

	n, err := strconv.Atoi(b.String())
	if err != nil || n < 0 {
		return 0
	}

	return n
}

// ParseRating parses a float rating, 0 when malformed.
func ParseRating(s string) float64 {
	f := ParseNumber(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return f
}

// Substring returns up to n runes of s starting at rune offset start.
func Substring(s string, start, n int) string {
	r := []rune(s)
	if start >= len(r) || start < 0 {
		return ""
	}

	end := min(start+n, len(r))

	return string(r[start:end])
}

// GroupThousands inserts a space every three digits: "1234567" -> "1 234 567".
func GroupThousands(s string) string {
	return reDigits.ReplaceAllStringFunc(s, func(d string) string {
		if len(d) <= 3 {
			return d
		}

		var b strings.Builder
		lead := len(d) % 3
		if lead > 0 {
			b.WriteString(d[:lead])
		}
		for i := lead; i < len(d); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(d[i : i+3])
		}

		return b.String()
	})
}

// Absolute resolves relative references against base and makes sure the
// result carries the secure scheme when it had none. Without a base a
// relative reference is returned unchanged.
func Absolute(base, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if base == "" || strings.HasPrefix(raw, "//") || looksLikeHost(raw) {
		return EnsureHTTPS(raw)
	}

	ref, err := url.Parse(raw)
	if err != nil || ref.Scheme != "" {
		return EnsureHTTPS(raw)
	}

	b, err := url.Parse(base)
	if err != nil {
		return EnsureHTTPS(raw)
	}

	return EnsureHTTPS(b.ResolveReference(ref).String())
}
