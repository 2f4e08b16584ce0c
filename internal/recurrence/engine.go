package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/example/community-slots/internal/domain"
)

// DefaultHorizonMonths bounds expansion when no end date is configured.
const DefaultHorizonMonths = 3

var jst = time.FixedZone("JST", 9*60*60)

// Engine expands recurrence inputs into concrete slots. Calendar days are
// evaluated in the engine's location, which should be the organizer's zone.
type Engine struct {
	location      *time.Location
	horizonMonths int
}

// NewEngine constructs an Engine for loc. If loc is nil, Asia/Tokyo (JST) is
// used. A non-positive horizonMonths selects DefaultHorizonMonths.
func NewEngine(loc *time.Location, horizonMonths int) *Engine {
	if loc == nil {
		loc = jst
	}
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	return &Engine{location: loc, horizonMonths: horizonMonths}
}

// Location returns the zone used for calendar-day arithmetic.
func (e *Engine) Location() *time.Location {
	if e == nil || e.location == nil {
		return jst
	}
	return e.location
}

// HorizonMonths returns the default generation horizon in months.
func (e *Engine) HorizonMonths() int {
	if e == nil || e.horizonMonths <= 0 {
		return DefaultHorizonMonths
	}
	return e.horizonMonths
}

// Validate checks settings against the base start in the engine's location.
func (e *Engine) Validate(input Input) RecurrenceError {
	return Validate(input.Settings, input.Base.StartAt, e.Location())
}

// Boundary returns the midnight of the last calendar day eligible for
// generation: the configured end date, or the base start shifted by the
// horizon (clamped to the target month's length).
func (e *Engine) Boundary(input Input) time.Time {
	loc := e.Location()
	if input.Settings.EndDate != nil {
		return StartOfDay(*input.Settings.EndDate, loc)
	}
	return StartOfDay(AddMonthsClamped(input.Base.StartAt.In(loc), e.HorizonMonths()), loc)
}

// Expand produces the ordered occurrences for input. The input is assumed to
// have passed Validate; an empty result is a valid outcome and callers should
// disable confirmation in that case.
//
// Every occurrence keeps the base slot's wall clock start time and its exact
// duration. The base day is the first candidate; the boundary day is
// inclusive.
func (e *Engine) Expand(input Input) []SlotDescriptor {
	loc := e.Location()
	baseStart := input.Base.StartAt.In(loc)
	duration := input.Base.Duration()
	if duration <= 0 {
		return nil
	}

	boundary := e.Boundary(input)
	if IsBeforeDay(boundary, baseStart, loc) {
		return nil
	}

	opts := rrule.ROption{
		Dtstart: baseStart,
		Until:   EndOfDay(boundary, loc),
	}
	switch input.Settings.Frequency {
	case FrequencyDaily:
		opts.Freq = rrule.DAILY
	case FrequencyWeekly:
		days := validWeekdays(input.Settings.SelectedDays)
		first, ok := NextWeekday(baseStart, days)
		if !ok || IsBeforeDay(boundary, first, loc) {
			return nil
		}
		opts.Freq = rrule.WEEKLY
		opts.Byweekday = toRRuleWeekdays(days)
	default:
		return nil
	}

	rule, err := rrule.NewRRule(opts)
	if err != nil {
		return nil
	}

	days := rule.All()
	slots := make([]SlotDescriptor, 0, len(days))
	for _, day := range days {
		start := CombineDateTime(day, baseStart, loc)
		slots = append(slots, SlotDescriptor{
			StartAt:       start,
			EndAt:         start.Add(duration),
			HostingStatus: domain.HostingScheduled,
		})
	}
	return slots
}

// Preview expands input and wraps the result for confirmation. When cache is
// non-nil, identical inputs are served from it.
func (e *Engine) Preview(input Input, cache *PreviewCache) Preview {
	if cache == nil {
		return NewPreview(e.Expand(input))
	}
	key := Fingerprint(input, e.Location(), e.HorizonMonths())
	if preview, ok := cache.Get(key); ok {
		return preview
	}
	preview := NewPreview(e.Expand(input))
	cache.Add(key, preview)
	return preview
}

var rruleWeekdays = [7]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

func toRRuleWeekdays(days []time.Weekday) []rrule.Weekday {
	out := make([]rrule.Weekday, 0, len(days))
	for _, day := range days {
		out = append(out, rruleWeekdays[day])
	}
	return out
}
