package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tailorflow/tailorflow/internal/models"
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// dateRangeRe matches "Jan 2019 - Mar 2021", "2019-2021", "2019 – Present"
// and similar. Month names are optional.
var dateRangeRe = regexp.MustCompile(
	`(?i)([a-z]{3,9}\.?\s+)?(\d{4})\s*[-–—]\s*(?:([a-z]{3,9}\.?\s+)?(\d{4})|present|current|now)`)

// parseDateRange extracts the first date range from a line. The second
// return value is false when no range was found.
func parseDateRange(line string) (models.DateRange, bool) {
	m := dateRangeRe.FindStringSubmatch(line)
	if m == nil {
		return models.DateRange{}, false
	}

	start := monthYear(m[1], m[2])
	var end time.Time
	if m[4] != "" {
		end = monthYear(m[3], m[4])
		// End-of-period semantics: a bare end year means December.
		if strings.TrimSpace(m[3]) == "" {
			end = time.Date(end.Year(), time.December, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return models.DateRange{Start: start, End: end}, true
}

// monthYear builds a month-resolution UTC time; a missing month means
// January.
func monthYear(monthStr, yearStr string) time.Time {
	year, _ := strconv.Atoi(yearStr)
	month := time.January
	key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(monthStr), "."))
	if len(key) >= 3 {
		if m, ok := monthNames[key[:3]]; ok {
			month = m
		}
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// extractYear returns the first four-digit year on a line, or 0.
func extractYear(line string) int {
	m := yearRe.FindString(line)
	if m == "" {
		return 0
	}
	y, _ := strconv.Atoi(m)
	return y
}

// stripDateRange removes the matched date range text from a line.
func stripDateRange(line string) string {
	return strings.TrimSpace(dateRangeRe.ReplaceAllString(line, ""))
}
