// Package dashboard turns a raw delivery collection into the branch- and
// date-scoped views and aggregates every screen renders from. All functions
// are pure: they only read their inputs.
package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Range selects the date window of a view
type Range string

const (
	RangeToday   Range = "today"
	RangeWeekly  Range = "weekly"
	RangeMonthly Range = "monthly"
	RangeCustom  Range = "custom"
	RangeAll     Range = "all"
)

// ParseRange maps a query value to a Range; unknown values fall back to today
func ParseRange(s string) Range {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case RangeToday, RangeWeekly, RangeMonthly, RangeCustom, RangeAll:
		return r
	}
	return RangeToday
}

const (
	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
	weekSpanDays  = 7
)

// Day is a calendar date with no time-of-day
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf strips t to its calendar date in t's location
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

func (d Day) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative)
func (d Day) AddDays(n int) Day {
	return DayOf(d.time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than o
func (d Day) Before(o Day) bool {
	return d.time().Before(o.time())
}

// ISO formats d as YYYY-MM-DD
func (d Day) ISO() string {
	return d.time().Format(isoLayout)
}

// Display formats d as DD/MM/YYYY
func (d Day) Display() string {
	return d.time().Format(displayLayout)
}

// ParseDate reads DD/MM/YYYY or YYYY-MM-DD, detected by separator.
// A trailing time part ("2024-03-10T08:00:00Z") is ignored.
func ParseDate(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Day{}, fmt.Errorf("empty date")
	}
	if i := strings.IndexAny(s, "T "); i > 0 {
		s = s[:i]
	}

	var y, m, d int
	var err error
	switch {
	case strings.Contains(s, "/"):
		y, m, d, err = splitDate(s, "/", 2, 1, 0)
	case strings.Contains(s, "-"):
		y, m, d, err = splitDate(s, "-", 0, 1, 2)
	default:
		err = fmt.Errorf("unrecognized date %q", s)
	}
	if err != nil {
		return Day{}, err
	}
	// two-digit years ("10/03/24") are ambiguous
	if y < 1000 || y > 9999 {
		return Day{}, fmt.Errorf("year out of range in %q", s)
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return Day{}, fmt.Errorf("invalid calendar date %q", s)
	}
	return DayOf(t), nil
}

func splitDate(s, sep string, yi, mi, di int) (int, int, int, error) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("unrecognized date %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("unrecognized date %q", s)
		}
		nums[i] = n
	}
	return nums[yi], nums[mi], nums[di], nil
}

// ToISO normalizes s for persistence; empty or malformed input becomes today
func ToISO(s string, today Day) string {
	d, err := ParseDate(s)
	if err != nil {
		return today.ISO()
	}
	return d.ISO()
}

// ToDisplay normalizes s for display; empty or malformed input becomes today
func ToDisplay(s string, today Day) string {
	d, err := ParseDate(s)
	if err != nil {
		return today.Display()
	}
	return d.Display()
}

// IsInRange reports whether date falls in the window of mode. Weekly covers
// today and the seven days before it. Unknown dates only match RangeAll, and
// RangeCustom with an unparsable reference matches nothing.
func IsInRange(date string, mode Range, reference string, today Day) bool {
	if mode == RangeAll {
		return true
	}

	d, err := ParseDate(date)
	if err != nil {
		return false
	}

	switch mode {
	case RangeToday:
		return d == today
	case RangeWeekly:
		from := today.AddDays(-weekSpanDays)
		return !d.Before(from) && !today.Before(d)
	case RangeMonthly:
		return d.Year == today.Year && d.Month == today.Month
	case RangeCustom:
		ref, err := ParseDate(reference)
		if err != nil {
			return false
		}
		return d == ref
	}
	return false
}

// Weekday labels as shown on delivery records
var weekdayLabels = [...]string{
	"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira",
	"Quinta-feira", "Sexta-feira", "Sábado",
}

// WeekdayLabel returns the day-of-week label for an ISO or display date
func WeekdayLabel(date string) string {
	d, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return weekdayLabels[d.time().Weekday()]
}

// PeriodLabel describes the window of mode for headers and printouts
func PeriodLabel(mode Range, reference string, today Day) string {
	switch mode {
	case RangeAll:
		return "Todo o período"
	case RangeWeekly:
		return today.AddDays(-weekSpanDays).Display() + " a " + today.Display()
	case RangeMonthly:
		return fmt.Sprintf("%02d/%d", int(today.Month), today.Year)
	case RangeCustom:
		if ref, err := ParseDate(reference); err == nil {
			return ref.Display()
		}
		return reference
	}
	return today.Display()
}
