package calendar

import "time"

// Workweek lengths supported by the counter.
const (
	WorkweekFiveDays = 5 // Monday through Friday
	WorkweekSixDays  = 6 // Monday through Saturday
)

// Counter counts chargeable working days in a date range. A day is
// chargeable when its weekday falls inside the work pattern and it is
// not a holiday.
type Counter struct {
	Calendar *Calendar
}

func NewCounter(cal *Calendar) *Counter {
	return &Counter{Calendar: cal}
}

// Count iterates the inclusive range [start, end]. A workweek of 6
// includes Saturdays; any other value means Monday through Friday.
// An inverted range counts zero days.
func (c *Counter) Count(start, end Date, workweek int) int {
	days := 0
	for cur := start; cur.BeforeOrEqual(end); cur = cur.AddDays(1) {
		if !inWorkweek(cur.Weekday(), workweek) {
			continue
		}
		if c.Calendar.IsHoliday(cur) {
			continue
		}
		days++
	}
	return days
}

func inWorkweek(wd time.Weekday, workweek int) bool {
	switch wd {
	case time.Saturday:
		return workweek == WorkweekSixDays
	case time.Sunday:
		return false
	default:
		return true
	}
}
