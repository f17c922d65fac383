package values

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// serials past this are after 9999-12-31
	maxSerial = 2958465
	// two-digit years below the pivot are 20xx, the rest 19xx
	yearPivot = 70
)

var (
	isoRe      = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})(?:[ t].*)?$`)
	dayFirstRe = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{4}|\d{2})(?:[ t].*)?$`)
	compactRe  = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	serialRe   = regexp.MustCompile(`^(\d{1,7})(?:\.\d+)?$`)
	dayNameRe  = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?[\s\-/.]*([a-z]+)\.?[\s,\-/.]*(\d{4}|\d{2})$`)
	nameDayRe  = regexp.MustCompile(`^([a-z]+)\.?[\s\-/.]*(\d{1,2})(?:st|nd|rd|th)?[\s,\-/.]+(\d{4}|\d{2})$`)

	excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// Date reads a joining date and renders it as YYYY-MM-DD.
//
// Separated numeric dates that do not start with a four digit year are always read
// day first: 03/04/2024 is 3 April 2024. This is a fixed convention for the whole
// upload, not a guess per value, and there is no fallback when the middle group is
// above 12; such a value is rejected rather than reinterpreted as month first.
//
// Also accepted: ISO dates and datetimes, YYYYMMDD, month names in either order
// ("15 Jan 2024", "Jan 15, 2024"), and spreadsheet serials in the 1900 date system.
// Impossible calendar dates report ok=false.
func Date(s string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return "", false
	}
	if m := isoRe.FindStringSubmatch(t); m != nil {
		return ymd(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := dayFirstRe.FindStringSubmatch(t); m != nil {
		return ymd(year(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := compactRe.FindStringSubmatch(t); m != nil {
		return ymd(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := serialRe.FindStringSubmatch(t); m != nil {
		// A bare 4-digit year is too ambiguous to read as a serial.
		if n := atoi(m[1]); len(t) == 4 && n >= 1900 && n <= 2100 {
			return "", false
		}
		return serial(atoi(m[1]))
	}
	if m := dayNameRe.FindStringSubmatch(t); m != nil {
		if mon, ok := month(m[2]); ok {
			return ymd(year(m[3]), int(mon), atoi(m[1]))
		}
	}
	if m := nameDayRe.FindStringSubmatch(t); m != nil {
		if mon, ok := month(m[1]); ok {
			return ymd(year(m[3]), int(mon), atoi(m[2]))
		}
	}
	return "", false
}

// serial converts a 1900-system day number. The format counts a 29 Feb 1900 that
// never existed, so serials after 60 are one day ahead and 60 itself is invalid.
func serial(n int) (string, bool) {
	switch {
	case n < 1 || n > maxSerial || n == 60:
		return "", false
	case n < 60:
		return excelEpoch.AddDate(0, 0, n+1).Format(time.DateOnly), true
	}
	return excelEpoch.AddDate(0, 0, n).Format(time.DateOnly), true
}

func ymd(y, m, d int) (string, bool) {
	if y < 1900 || y > 9999 || m < 1 || m > 12 || d < 1 {
		return "", false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m {
		return "", false
	}
	return t.Format(time.DateOnly), true
}

func month(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	m, ok := months[name[:3]]
	return m, ok
}

func year(s string) int {
	y := atoi(s)
	if len(s) == 2 {
		if y < yearPivot {
			return 2000 + y
		}
		return 1900 + y
	}
	return y
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
