package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrUnrecognized is returned for dates in neither ISO nor US form.
var ErrUnrecognized = errors.New("unrecognized date")

var (
	isoLike = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
	usLike  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// Parse canonicalizes YYYY-MM-DD, YYYY/M/D and M/D/YYYY into YYYY-MM-DD.
func Parse(s string) (string, error) {
	var y, m, d string

	if match := isoLike.FindStringSubmatch(s); match != nil {
		y, m, d = match[1], match[2], match[3]
	} else if match := usLike.FindStringSubmatch(s); match != nil {
		m, d, y = match[1], match[2], match[3]
	} else {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}

	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// Display renders a canonical date as MM/DD/YYYY. Non-canonical input is
// returned unchanged.
func Display(iso string) string {
	t, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return iso
	}

	return t.Format("01/02/2006")
}

// Today returns the canonical date for now().
func Today(now func() time.Time) string {
	return now().Format(time.DateOnly)
}
