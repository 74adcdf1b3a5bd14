package progression

import "time"

// Date is a calendar date with no time-of-day component. All conversions go
// through UTC so that day-difference arithmetic cannot shift across DST
// transitions or server timezone changes.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	t = t.UTC()
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysSince returns the number of whole calendar days between d and earlier.
// Negative when d precedes earlier.
func (d Date) DaysSince(earlier Date) int {
	return int(d.Time().Sub(earlier.Time()) / (24 * time.Hour))
}

func (d Date) Equal(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}
