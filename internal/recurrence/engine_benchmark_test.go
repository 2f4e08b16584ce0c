package recurrence

import (
	"testing"
	"time"
)

func BenchmarkEngineExpand(b *testing.B) {
	engine := NewEngine(jst, DefaultHorizonMonths)
	baseStart := time.Date(2024, 5, 6, 9, 0, 0, 0, jst)

	until := baseStart.AddDate(0, 3, 0)
	input := Input{
		Base: BaseSlot{StartAt: baseStart, EndAt: baseStart.Add(90 * time.Minute)},
		Settings: Settings{
			Frequency: FrequencyWeekly,
			SelectedDays: []time.Weekday{
				time.Monday,
				time.Tuesday,
				time.Wednesday,
				time.Thursday,
				time.Friday,
			},
			EndDate: &until,
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if slots := engine.Expand(input); len(slots) == 0 {
			b.Fatal("expected slots to be generated")
		}
	}
}

func BenchmarkEnginePreviewCached(b *testing.B) {
	engine := NewEngine(jst, DefaultHorizonMonths)
	cache := NewPreviewCache(16, time.Minute)
	baseStart := time.Date(2024, 5, 6, 9, 0, 0, 0, jst)
	input := Input{
		Base:     BaseSlot{StartAt: baseStart, EndAt: baseStart.Add(time.Hour)},
		Settings: Settings{Frequency: FrequencyDaily},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if preview := engine.Preview(input, cache); !preview.CanConfirm() {
			b.Fatal("expected preview to be confirmable")
		}
	}
}
