package provider

import (
	"fmt"
	"strings"
	"time"
)

// seasonCutoverMonth is the first month of a new season (July).
const seasonCutoverMonth = time.July

// valuationDateLayouts are the date formats seen in market value histories.
var valuationDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"02.01.2006",
}

// SeasonLabel returns the "YY/YY" season a date falls in, with seasons
// running July to June: 2023-05-10 is "22/23", 2023-09-10 is "23/24".
func SeasonLabel(t time.Time) string {
	year := t.Year()
	if t.Month() < seasonCutoverMonth {
		return fmt.Sprintf("%02d/%02d", mod100(year-1), mod100(year))
	}
	return fmt.Sprintf("%02d/%02d", mod100(year), mod100(year+1))
}

// ParseValuationDate parses a market value history date.
func ParseValuationDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range valuationDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// mod100 is a non-negative year modulo 100.
func mod100(year int) int {
	return ((year % 100) + 100) % 100
}
