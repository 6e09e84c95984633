// Package dateutil provides a civil calendar date stored as a day count.
//
// Projections step through tens of thousands of days per run, so a Date is
// a plain integer offset from 1970-01-01 (UTC). Advancing a day is an
// addition, and copies never alias.
package dateutil

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Layout is the canonical textual form of a Date.
const Layout = "2006-01-02"

const secondsPerDay = 86400

// Date is a calendar day expressed as days since 1970-01-01.
type Date int32

// New returns the Date for the given calendar day. Out-of-range months and
// days are normalized the same way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// FromTime truncates t to its calendar day in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, m, d)
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp (whose calendar day
// is kept).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(Layout, s); err == nil {
		return FromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FromTime(t), nil
	}
	return 0, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// MustParse is ParseDate for literals known to be valid.
func MustParse(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func (d Date) Year() int {
	return d.Time().Year()
}

func (d Date) Month() time.Month {
	return d.Time().Month()
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// AddMonths follows time.AddDate normalization (Jan 31 + 1 month = Mar 3/2).
func (d Date) AddMonths(n int) Date {
	return FromTime(d.Time().AddDate(0, n, 0))
}

func (d Date) AddYears(n int) Date {
	return FromTime(d.Time().AddDate(n, 0, 0))
}

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other - d)
}

func (d Date) Before(other Date) bool { return d < other }
func (d Date) After(other Date) bool  { return d > other }

// FirstOfNextYear returns January 1st of the year after d.
func (d Date) FirstOfNextYear() Date {
	return New(d.Year()+1, time.January, 1)
}

// SameMonth reports whether d and other fall in the same calendar month.
func (d Date) SameMonth(other Date) bool {
	ty, tm, _ := d.Time().Date()
	oy, om, _ := other.Time().Date()
	return ty == oy && tm == om
}

func (d Date) String() string {
	return d.Time().Format(Layout)
}

// Midpoint returns the day halfway between a and b, rounded toward the
// earlier day.
func Midpoint(a, b Date) Date {
	sum := int64(a) + int64(b)
	mid := sum / 2
	if sum < 0 && sum%2 != 0 {
		mid--
	}
	return Date(mid)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	parsed, err := ParseDate(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = parsed
	return nil
}
