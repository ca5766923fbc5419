package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/HasnainAli47/ResumeParser/internal/models"
)

var (
	presentPattern       = regexp.MustCompile(`(?i)^(present|current|currently|now|ongoing|today|till date|to date|till now)$`)
	yearOnlyPattern      = regexp.MustCompile(`^(\d{4})$`)
	monthYearPattern     = regexp.MustCompile(`^(\d{1,2})\s*[/.-]\s*(\d{4})$`)
	yearMonthPattern     = regexp.MustCompile(`^(\d{4})\s*[/.-]\s*(\d{1,2})$`)
	monthNameYearPattern = regexp.MustCompile(`(?i)^([a-z]{3,9})\.?,?\s+(\d{4})$`)
	anyYearPattern       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Years before this are placeholders such as "0000", not dates.
const minExperienceYear = 1900

const yearDuration = time.Duration(365.25 * 24 * float64(time.Hour))

// ParseExperienceDate reads the free text start or end marker of a work
// experience entry. Rules, in order:
//
//	present, current, now, ongoing, ...   now
//	2019                                  2019-01-01
//	03/2019, 2019-03                      2019-03-01
//	Mar 2019, March 2019                  2019-03-01
//	anything dateparse understands
//	first 19xx/20xx year in the text      Jan 1 of that year
//
// A rule whose pattern matches but whose values are out of range falls
// through to the next one. Years before 1900 never parse.
func ParseExperienceDate(text string, now time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, models.Unknown) {
		return time.Time{}, false
	}

	if presentPattern.MatchString(text) {
		return now, true
	}

	if m := yearOnlyPattern.FindStringSubmatch(text); m != nil {
		if t, ok := yearMonth(m[1], 1); ok {
			return t, true
		}
	}

	if m := monthYearPattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		if t, ok := yearMonth(m[2], month); ok {
			return t, true
		}
	}

	if m := yearMonthPattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[2])
		if t, ok := yearMonth(m[1], month); ok {
			return t, true
		}
	}

	if m := monthNameYearPattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthsByPrefix[strings.ToLower(m[1][:3])]; ok {
			if t, ok := yearMonth(m[2], int(month)); ok {
				return t, true
			}
		}
	}

	if t, err := dateparse.ParseAny(text); err == nil && t.Year() >= minExperienceYear {
		return t.UTC(), true
	}

	if year := anyYearPattern.FindString(text); year != "" {
		return yearMonth(year, 1)
	}

	return time.Time{}, false
}

func yearMonth(yearText string, month int) (time.Time, bool) {
	year, err := strconv.Atoi(yearText)
	if err != nil || year < minExperienceYear || month < 1 || month > 12 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

type ExperienceRange struct {
	Start time.Time
	End   time.Time
}

// ParseExperienceRange fails when the start marker cannot be read. An
// unreadable or earlier end marker yields a zero length range.
func ParseExperienceRange(start, end string, now time.Time) (ExperienceRange, bool) {
	from, ok := ParseExperienceDate(start, now)
	if !ok {
		return ExperienceRange{}, false
	}

	to, ok := ParseExperienceDate(end, now)
	if !ok || to.Before(from) {
		to = from
	}

	return ExperienceRange{Start: from, End: to}, true
}

// TotalExperience sums the parsed ranges with overlaps merged, so two
// concurrent positions are not counted twice.
func TotalExperience(entries []models.WorkExperience, now time.Time) time.Duration {
	ranges := make([]ExperienceRange, 0, len(entries))
	for _, entry := range entries {
		if r, ok := ParseExperienceRange(entry.StartDate, entry.EndDate, now); ok {
			ranges = append(ranges, r)
		}
	}
	if len(ranges) == 0 {
		return 0
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start.Before(ranges[j].Start)
	})

	var total time.Duration
	current := ranges[0]
	for _, r := range ranges[1:] {
		if !r.Start.After(current.End) {
			if r.End.After(current.End) {
				current.End = r.End
			}
			continue
		}
		total += current.End.Sub(current.Start)
		current = r
	}
	total += current.End.Sub(current.Start)

	return total
}

// ExperienceYears converts a duration into fractional years.
func ExperienceYears(d time.Duration) float64 {
	return float64(d) / float64(yearDuration)
}
