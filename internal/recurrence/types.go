package recurrence

import (
	"time"

	"github.com/example/community-slots/internal/domain"
)

// Frequency is the repetition type chosen by the organizer.
type Frequency string

const (
	// FrequencyDaily generates one slot per calendar day.
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly generates slots on the selected weekdays only.
	FrequencyWeekly Frequency = "weekly"
)

// Valid reports whether f is a supported frequency literal.
func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

// Settings is the repetition intent captured from the configuration form.
type Settings struct {
	Frequency Frequency
	// SelectedDays uses time.Weekday numbering (0 = Sunday). Ignored for
	// daily recurrences.
	SelectedDays []time.Weekday
	// EndDate is a calendar date; its time-of-day is ignored. Nil selects the
	// default horizon.
	EndDate *time.Time
}

// BaseSlot is the origin occurrence whose time-of-day and duration are
// repeated.
type BaseSlot struct {
	StartAt time.Time
	EndAt   time.Time
}

// Duration returns EndAt - StartAt.
func (b BaseSlot) Duration() time.Duration {
	return b.EndAt.Sub(b.StartAt)
}

// Input bundles a base slot with its recurrence settings.
type Input struct {
	Base     BaseSlot
	Settings Settings
}

// SlotDescriptor is a single concrete occurrence produced by expansion.
type SlotDescriptor struct {
	StartAt       time.Time
	EndAt         time.Time
	HostingStatus domain.HostingStatus
}

// Duration returns EndAt - StartAt.
func (s SlotDescriptor) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

// RecurrenceError carries field level configuration problems. Empty fields
// mean the configuration is valid.
type RecurrenceError struct {
	Days    string
	EndDate string
}

// HasErrors reports whether any field message is set.
func (e RecurrenceError) HasErrors() bool {
	return e.Days != "" || e.EndDate != ""
}

// Fields returns the populated messages keyed by form field name.
func (e RecurrenceError) Fields() map[string]string {
	if !e.HasErrors() {
		return nil
	}
	fields := make(map[string]string, 2)
	if e.Days != "" {
		fields["days"] = e.Days
	}
	if e.EndDate != "" {
		fields["end_date"] = e.EndDate
	}
	return fields
}
