package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/example/community-slots/internal/application"
	"github.com/example/community-slots/internal/domain"
)

const calendarProductID = "-//community-slots//slot feed//EN"

// encodeSlotCalendar renders slots as VEVENTs. Times are written in UTC.
func encodeSlotCalendar(opportunityID string, slots []application.Slot, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, calendarProductID)
	cal.Props.SetText(ical.PropName, "Opportunity "+opportunityID)

	for _, slot := range slots {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, slot.ID+"@community-slots")
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, slot.StartAt.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, slot.EndAt.UTC())
		event.Props.SetText(ical.PropSummary, fmt.Sprintf("Opportunity %s", slot.OpportunityID))
		if !slot.UpdatedAt.IsZero() {
			event.Props.SetDateTime(ical.PropLastModified, slot.UpdatedAt.UTC())
		}
		event.Props.SetText(ical.PropStatus, eventStatus(slot.HostingStatus))
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func eventStatus(status domain.HostingStatus) string {
	if status == domain.HostingCancelled {
		return "CANCELLED"
	}
	return "CONFIRMED"
}
