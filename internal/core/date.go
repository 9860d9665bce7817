// Package core holds the domain model of the school finance dashboard:
// transactions, students, the chart of accounts, the tuition pricing rule,
// the status reconciler and the period aggregator.
//
// Dates are civil dates: plain (year, month, day) triples decomposed from
// their literal string form. They are never routed through a timezone-aware
// parser, so a transaction recorded near midnight can not drift into the
// wrong day or month depending on the viewer's timezone.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CivilDate is a calendar date with no time-of-day and no timezone.
type CivilDate struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
}

var ErrInvalidDate = errors.New("invalid date")

// ParseCivilDate decomposes a literal "YYYY-MM-DD" string. Trailing time
// components ("2025-03-15T22:00:00Z", "2025-03-15 22:00:00") are cut off
// before the split; only the date substrings are ever interpreted.
func ParseCivilDate(s string) (CivilDate, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	d := CivilDate{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return CivilDate{}, err
	}
	return d, nil
}

// NewCivilDate builds a date from components without validation.
func NewCivilDate(year, month, day int) CivilDate {
	return CivilDate{Year: year, Month: month, Day: day}
}

// Today returns the current date in the organization's local civil calendar.
func Today() CivilDate {
	now := time.Now()
	return CivilDate{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

func (d CivilDate) Validate() error {
	if d.Year < 1 {
		return fmt.Errorf("%w: year %d", ErrInvalidDate, d.Year)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, d.Month)
	}
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("%w: day %d", ErrInvalidDate, d.Day)
	}
	return nil
}

func (d CivilDate) IsZero() bool {
	return d == CivilDate{}
}

// String renders the canonical "YYYY-MM-DD" form.
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// SameMonth reports whether both dates fall in the same month and year.
func (d CivilDate) SameMonth(o CivilDate) bool {
	return d.Year == o.Year && d.Month == o.Month
}

// dayNumber maps the date onto a continuous day count. The fixed UTC anchor
// keeps the arithmetic independent of the process timezone.
func (d CivilDate) dayNumber() int {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return int(t.Unix() / 86400)
}

// DaysSince returns d - o in whole days.
func (d CivilDate) DaysSince(o CivilDate) int {
	return d.dayNumber() - o.dayNumber()
}

func (d CivilDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *CivilDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = CivilDate{}
		return nil
	}
	parsed, err := ParseCivilDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
