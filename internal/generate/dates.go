package generate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type dateMode int

const (
	dateNow dateMode = iota
	dateYear
	datePast
	dateFuture
	dateLiteral
)

// DateSpec описывает, как вычисляется дата i-го реферала
type DateSpec struct {
	mode    dateMode
	literal time.Time
}

var literalLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"January 2 2006",
	"Jan 2 2006",
}

var (
	relativeShift = regexp.MustCompile(`^(?:(now|today)\s*)?([+-])\s*(\d+)\s*(day|week)s?$`)
	relativeAgo   = regexp.MustCompile(`^(\d+)\s*(day|week)s?\s+ago$`)
)

// ParseDateSpec разбирает параметр date. Токены year, past и future
// дают последовательность дат, любое другое значение разбирается как
// конкретная дата относительно now.
func ParseDateSpec(value string, now time.Time) (DateSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))

	switch v {
	case "":
		return DateSpec{mode: dateNow}, nil
	case "year":
		return DateSpec{mode: dateYear}, nil
	case "past":
		return DateSpec{mode: datePast}, nil
	case "future":
		return DateSpec{mode: dateFuture}, nil
	}

	t, err := parseLiteralDate(v, strings.TrimSpace(value), now)
	if err != nil {
		return DateSpec{}, err
	}
	return DateSpec{mode: dateLiteral, literal: t}, nil
}

// Resolve возвращает дату для итерации i (начиная с 1)
func (d DateSpec) Resolve(i int, now time.Time) time.Time {
	today := midnight(now)

	switch d.mode {
	case dateYear:
		return time.Date(now.Year(), time.January, i, 0, 0, 0, 0, now.Location())
	case datePast:
		return today.AddDate(0, 0, -i)
	case dateFuture:
		return today.AddDate(0, 0, i)
	case dateLiteral:
		return d.literal
	default:
		return now
	}
}

func parseLiteralDate(lower, original string, now time.Time) (time.Time, error) {
	today := midnight(now)

	switch lower {
	case "now":
		return now, nil
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if m := relativeShift.FindStringSubmatch(lower); m != nil {
		base := today
		if m[1] == "now" {
			base = now
		}
		days := shiftDays(m[3], m[4])
		if m[2] == "-" {
			days = -days
		}
		return base.AddDate(0, 0, days), nil
	}

	if m := relativeAgo.FindStringSubmatch(lower); m != nil {
		return today.AddDate(0, 0, -shiftDays(m[1], m[2])), nil
	}

	for _, layout := range literalLayouts {
		if t, err := time.ParseInLocation(layout, original, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, usageErrorf("не удалось разобрать дату %q", original)
}

func shiftDays(n, unit string) int {
	days, _ := strconv.Atoi(n)
	if unit == "week" {
		days *= 7
	}
	return days
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
