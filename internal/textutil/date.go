package textutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

var (
	reSlashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reWordDate  = regexp.MustCompile(`^(\d{1,2})\s+([\p{L}]+)\.?\s+(\d{4})$`)
	reISODate   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January, "janv": time.January, "janvier": time.January,
	"feb": time.February, "february": time.February, "fev": time.February, "fevr": time.February,
	"févr": time.February, "fevrier": time.February, "février": time.February,
	"mar": time.March, "march": time.March, "mars": time.March,
	"apr": time.April, "april": time.April, "avr": time.April, "avril": time.April,
	"may": time.May, "mai": time.May,
	"jun": time.June, "june": time.June, "juin": time.June,
	"jul": time.July, "july": time.July, "juil": time.July, "juillet": time.July,
	"aug": time.August, "august": time.August, "aout": time.August, "août": time.August,
	"sep": time.September, "sept": time.September, "september": time.September, "septembre": time.September,
	"oct": time.October, "october": time.October, "octobre": time.October,
	"nov": time.November, "november": time.November, "novembre": time.November,
	"dec": time.December, "december": time.December, "déc": time.December,
	"decembre": time.December, "décembre": time.December,
}

// ParseDate turns the date labels used by the reader CMS into a time.
//
// Empty text is the start of now's day. "Aujourd'hui" and "Hier" keep now's
// hour and minute. Literal dates ("15/03/2022", "15 Mar. 2022", "2022-03-15")
// are midnight in now's location.
func ParseDate(text string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(text)
	loc := now.Location()

	switch normalizeLabel(s) {
	case "":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	case "aujourd'hui":
		return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, loc), nil
	case "hier":
		return time.Date(now.Year(), now.Month(), now.Day()-1, now.Hour(), now.Minute(), 0, 0, loc), nil
	}

	if m := reSlashDate.FindStringSubmatch(s); m != nil {
		return buildDate(s, m[3], m[2], m[1], loc)
	}
	if m := reISODate.FindStringSubmatch(s); m != nil {
		return buildDate(s, m[1], m[2], m[3], loc)
	}
	if m := reWordDate.FindStringSubmatch(s); m != nil {
		mon, ok := months[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, fmt.Errorf("%w: unknown month in %q", ErrInvalidDate, s)
		}

		return buildDate(s, m[3], strconv.Itoa(int(mon)), m[1], loc)
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func normalizeLabel(s string) string {
	s = strings.ToLower(s)

	return strings.NewReplacer("’", "'", "´", "'").Replace(s)
}

func buildDate(raw, y, m, d string, loc *time.Location) (time.Time, error) {
	year, err1 := strconv.Atoi(y)
	month, err2 := strconv.Atoi(m)
	day, err3 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q out of range", ErrInvalidDate, raw)
	}

	return t, nil
}
