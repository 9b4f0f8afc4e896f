package verifier

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

var (
	numberGroups = regexp.MustCompile(`\d+`)
	monthNames   = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\b`)
	monthIndex   = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

// ParseDate reads the first three numeric groups of s as Y-M-D when the
// first group has four digits, otherwise as D-M-Y, falling back to M-D-Y
// when the middle group cannot be a month. Month names count as numbers.
// Two digit years below 50 are 20xx, the rest 19xx.
func ParseDate(s string) (Date, bool) {
	s = monthNames.ReplaceAllStringFunc(s, func(m string) string {
		key := strings.ToLower(strings.TrimSuffix(m, "."))
		if n, ok := monthIndex[key]; ok {
			return " " + strconv.Itoa(n) + " "
		}
		if n, ok := monthIndex[key[:3]]; ok {
			return " " + strconv.Itoa(n) + " "
		}
		return m
	})

	groups := numberGroups.FindAllString(s, -1)
	if len(groups) < 3 {
		return Date{}, false
	}
	groups = groups[:3]

	n := make([]int, 3)
	for i, g := range groups {
		v, err := strconv.Atoi(g)
		if err != nil {
			return Date{}, false
		}
		n[i] = v
	}

	var d Date
	var yearDigits int
	switch {
	case len(groups[0]) == 4:
		d = Date{Year: n[0], Month: n[1], Day: n[2]}
		yearDigits = 4
	case n[1] > 12 && n[0] <= 12:
		d = Date{Year: n[2], Month: n[0], Day: n[1]}
		yearDigits = len(groups[2])
	default:
		d = Date{Year: n[2], Month: n[1], Day: n[0]}
		yearDigits = len(groups[2])
	}

	switch yearDigits {
	case 1, 2:
		if d.Year < 50 {
			d.Year += 2000
		} else {
			d.Year += 1900
		}
	case 4:
	default:
		return Date{}, false
	}

	if !valid(d) {
		return Date{}, false
	}
	return d, true
}

func valid(d Date) bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && int(t.Month()) == d.Month && t.Day() == d.Day
}
