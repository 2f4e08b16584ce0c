package recurrence

import "time"

const (
	// MessageDaysRequired is reported for weekly recurrences without days.
	MessageDaysRequired = "select at least one day"
	// MessageEndDateBeforeStart is reported when the end date precedes the
	// base slot's day.
	MessageEndDateBeforeStart = "end date must not precede start date"
)

// Validate checks a recurrence configuration against the base slot start.
// Calendar days are compared in loc. It never fails; problems are returned
// as field messages.
func Validate(settings Settings, baseStart time.Time, loc *time.Location) RecurrenceError {
	var result RecurrenceError

	if settings.Frequency == FrequencyWeekly && len(validWeekdays(settings.SelectedDays)) == 0 {
		result.Days = MessageDaysRequired
	}

	if settings.EndDate != nil && IsBeforeDay(*settings.EndDate, baseStart, loc) {
		result.EndDate = MessageEndDateBeforeStart
	}

	return result
}

// validWeekdays drops out-of-range values and duplicates, returning the days
// in ascending order.
func validWeekdays(days []time.Weekday) []time.Weekday {
	var seen [7]bool
	for _, day := range days {
		if day >= time.Sunday && day <= time.Saturday {
			seen[day] = true
		}
	}
	out := make([]time.Weekday, 0, len(days))
	for day := time.Sunday; day <= time.Saturday; day++ {
		if seen[day] {
			out = append(out, day)
		}
	}
	return out
}
