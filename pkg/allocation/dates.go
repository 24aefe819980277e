package allocation

import "time"

// NextOpenDate returns the calendar date for the given day of month, skipping
// the weekly closure day by rolling forward. A day past the end of the month
// pushes the sales to the first of the next month.
func NextOpenDate(year, month, day int, closure time.Weekday) time.Time {
	if day > daysInMonth(year, month) {
		month++
		day = 1
		if month > 12 {
			month = 1
			year++
		}
	}
	dt := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if dt.Weekday() == closure {
		return NextOpenDate(year, month, day+1, closure)
	}
	return dt
}

func daysInMonth(year, month int) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
