package recurrence

import "time"

// AddDays shifts t by n calendar days keeping its wall clock time in t's
// location.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddWeeks shifts t by n weeks.
func AddWeeks(t time.Time, n int) time.Time {
	return AddDays(t, 7*n)
}

// AddMonthsClamped shifts t by n calendar months. When the target month is
// shorter than t's day of month the result is clamped to the last day of
// that month (Jan 31 + 1 month = Feb 28/29) instead of overflowing.
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	ty, tm, _ := first.Date()
	if last := daysIn(ty, tm, t.Location()); d > last {
		d = last
	}
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// WeekdayOf returns 0 (Sunday) through 6 (Saturday).
func WeekdayOf(t time.Time) int {
	return int(t.Weekday())
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	loc = locationOr(loc, t)
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns the last representable instant of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	loc = locationOr(loc, t)
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// IsBeforeDay reports whether a's calendar day in loc is strictly before b's.
// Time of day is ignored.
func IsBeforeDay(a, b time.Time, loc *time.Location) bool {
	loc = locationOr(loc, a)
	return dayKey(a, loc) < dayKey(b, loc)
}

// IsSameOrBeforeDay reports whether a's calendar day in loc is on or before
// b's.
func IsSameOrBeforeDay(a, b time.Time, loc *time.Location) bool {
	loc = locationOr(loc, a)
	return dayKey(a, loc) <= dayKey(b, loc)
}

// NextWeekday returns the first day on or after t whose weekday is in set,
// keeping t's wall clock time. It returns false when set is empty.
func NextWeekday(t time.Time, set []time.Weekday) (time.Time, bool) {
	if len(set) == 0 {
		return time.Time{}, false
	}
	for i := 0; i < 7; i++ {
		candidate := AddDays(t, i)
		for _, day := range set {
			if candidate.Weekday() == day {
				return candidate, true
			}
		}
	}
	return time.Time{}, false
}

// CombineDateTime places template's wall clock time on dateSource's calendar
// day, both interpreted in loc.
//
// A wall clock time that falls in a daylight saving gap is read with the
// offset in effect before the gap, so 02:30 on a spring-forward night in
// America/New_York becomes 03:30 EDT. The result never moves earlier than
// the requested time.
func CombineDateTime(dateSource, template time.Time, loc *time.Location) time.Time {
	loc = locationOr(loc, template)
	y, m, d := dateSource.In(loc).Date()
	tt := template.In(loc)
	combined := time.Date(y, m, d, tt.Hour(), tt.Minute(), tt.Second(), tt.Nanosecond(), loc)
	if combined.Hour() == tt.Hour() && combined.Minute() == tt.Minute() {
		return combined
	}

	_, before := combined.Add(-12 * time.Hour).Zone()
	return time.Date(y, m, d, tt.Hour(), tt.Minute(), tt.Second(), tt.Nanosecond(), time.FixedZone("", before)).In(loc)
}

func dayKey(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return y*10000 + int(m)*100 + d
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func locationOr(loc *time.Location, t time.Time) *time.Location {
	if loc != nil {
		return loc
	}
	return t.Location()
}
