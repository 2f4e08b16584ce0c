package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	baseStart := time.Date(2024, time.March, 15, 10, 0, 0, 0, jst)

	cases := []struct {
		name     string
		settings Settings
		want     RecurrenceError
	}{
		{
			name:     "daily without end date",
			settings: Settings{Frequency: FrequencyDaily},
		},
		{
			name:     "daily ignores empty days",
			settings: Settings{Frequency: FrequencyDaily, SelectedDays: nil, EndDate: ptr(baseStart)},
		},
		{
			name:     "weekly without days",
			settings: Settings{Frequency: FrequencyWeekly},
			want:     RecurrenceError{Days: MessageDaysRequired},
		},
		{
			name:     "weekly with only out of range days",
			settings: Settings{Frequency: FrequencyWeekly, SelectedDays: []time.Weekday{7, -1}},
			want:     RecurrenceError{Days: MessageDaysRequired},
		},
		{
			name:     "end date before start",
			settings: Settings{Frequency: FrequencyDaily, EndDate: ptr(time.Date(2024, time.March, 10, 0, 0, 0, 0, jst))},
			want:     RecurrenceError{EndDate: MessageEndDateBeforeStart},
		},
		{
			name: "both problems",
			settings: Settings{
				Frequency: FrequencyWeekly,
				EndDate:   ptr(time.Date(2024, time.March, 14, 23, 59, 0, 0, jst)),
			},
			want: RecurrenceError{Days: MessageDaysRequired, EndDate: MessageEndDateBeforeStart},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Validate(tc.settings, baseStart, jst)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.HasErrors(), got.HasErrors())
		})
	}
}

func TestRecurrenceError_Fields(t *testing.T) {
	t.Parallel()

	assert.Nil(t, RecurrenceError{}.Fields())
	assert.Equal(t, map[string]string{"days": MessageDaysRequired}, RecurrenceError{Days: MessageDaysRequired}.Fields())
	assert.Equal(t, map[string]string{
		"days":     MessageDaysRequired,
		"end_date": MessageEndDateBeforeStart,
	}, RecurrenceError{Days: MessageDaysRequired, EndDate: MessageEndDateBeforeStart}.Fields())
}
