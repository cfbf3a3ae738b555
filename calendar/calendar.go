/*
Package calendar computes the Liechtenstein public-holiday calendar and
counts working days against it.

The calendar is built from two sources:
 1. A fixed table of month/day holidays (Neujahr, Staatsfeiertag, ...).
 2. Movable feasts derived as day offsets from Easter Sunday, which is
    computed with the Gregorian (Meeus/Jones/Butcher) algorithm.

The computed calendar is the single authoritative holiday source for
working-day counting. It is fully deterministic, so per-year results are
memoized.
*/
package calendar

import (
	"sort"
	"sync"
	"time"
)

// HolidayType distinguishes statutory holidays from optional ones.
type HolidayType string

const (
	TypeNational HolidayType = "national"
	TypeOptional HolidayType = "optional"
)

// Holiday is a single entry in the computed calendar.
type Holiday struct {
	Date Date
	Name string
	Type HolidayType
	Paid bool
}

type fixedHoliday struct {
	month time.Month
	day   int
	name  string
	typ   HolidayType
	paid  bool
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Neujahr", TypeNational, true},
	{time.January, 6, "Heilige Drei Könige", TypeNational, true},
	{time.February, 2, "Mariä Lichtmess", TypeNational, true},
	{time.March, 19, "Josefstag", TypeNational, true},
	{time.May, 1, "Tag der Arbeit", TypeNational, true},
	{time.August, 15, "Staatsfeiertag (Maria Himmelfahrt)", TypeNational, true},
	{time.September, 8, "Mariä Geburt", TypeNational, true},
	{time.November, 1, "Allerheiligen", TypeNational, true},
	{time.December, 8, "Mariä Empfängnis", TypeNational, true},
	{time.December, 24, "Heiligabend", TypeOptional, false},
	{time.December, 25, "Weihnachten", TypeNational, true},
	{time.December, 26, "Stephanstag", TypeNational, true},
	{time.December, 31, "Silvester", TypeOptional, false},
}

type movableHoliday struct {
	offset int // days relative to Easter Sunday
	name   string
	typ    HolidayType
	paid   bool
}

var movableHolidays = []movableHoliday{
	{-2, "Karfreitag", TypeNational, true},
	{0, "Ostersonntag", TypeNational, true},
	{1, "Ostermontag", TypeNational, true},
	{39, "Christi Himmelfahrt", TypeNational, true},
	{49, "Pfingstsonntag", TypeNational, true},
	{50, "Pfingstmontag", TypeNational, true},
	{60, "Fronleichnam", TypeNational, true},
}

// EasterSunday returns the date of Easter Sunday for a year in the
// Gregorian calendar (Meeus/Jones/Butcher).
func EasterSunday(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewDate(year, time.Month(month), day)
}

// Calendar computes and memoizes Liechtenstein holidays per year.
type Calendar struct {
	mu    sync.RWMutex
	cache map[int]map[string]Holiday
}

func New() *Calendar {
	return &Calendar{cache: make(map[int]map[string]Holiday)}
}

// HolidaysFor returns all holidays of a year keyed by ISO date.
// The returned map must not be modified.
func (c *Calendar) HolidaysFor(year int) map[string]Holiday {
	c.mu.RLock()
	byDate, ok := c.cache[year]
	c.mu.RUnlock()
	if ok {
		return byDate
	}

	byDate = make(map[string]Holiday, len(fixedHolidays)+len(movableHolidays))
	for _, f := range fixedHolidays {
		d := NewDate(year, f.month, f.day)
		byDate[d.String()] = Holiday{Date: d, Name: f.name, Type: f.typ, Paid: f.paid}
	}
	easter := EasterSunday(year)
	for _, m := range movableHolidays {
		d := easter.AddDays(m.offset)
		byDate[d.String()] = Holiday{Date: d, Name: m.name, Type: m.typ, Paid: m.paid}
	}

	c.mu.Lock()
	c.cache[year] = byDate
	c.mu.Unlock()
	return byDate
}

// IsHoliday reports whether the date is a Liechtenstein holiday.
func (c *Calendar) IsHoliday(d Date) bool {
	_, ok := c.HolidaysFor(d.Year())[d.String()]
	return ok
}

// List returns the year's holidays sorted ascending by date.
func (c *Calendar) List(year int) []Holiday {
	byDate := c.HolidaysFor(year)
	out := make([]Holiday, 0, len(byDate))
	for _, h := range byDate {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
