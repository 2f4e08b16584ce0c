// Package http exposes the slot and reservation services over a chi router.
//
// The router exposes the following endpoints:
//   - GET /health: liveness probe returning {"status":"ok"}.
//   - POST /recurrences/preview: expands a recurrence configuration without
//     persisting it. Body: the `recurrenceRequest` payload defined in
//     slot_handler.go. Response: {"count","slots":[...]}; configuration
//     problems return 422 with field errors keyed by base, frequency, days
//     and end_date.
//   - GET /opportunities/{opportunityID}/slots: lists the slots of an
//     opportunity ordered by start time.
//   - GET /opportunities/{opportunityID}/slots.ics: the same slots as an
//     iCalendar feed. Cancelled slots carry STATUS:CANCELLED.
//   - POST /opportunities/{opportunityID}/slots: confirms a recurrence and
//     persists every generated slot.
//   - PUT /slots/{slotID}: reschedules a slot (organizer, outside 7 days).
//   - POST /slots/{slotID}/cancel: cancels a slot (organizer).
//   - POST /slots/{slotID}/reservations: applies to a slot (participant).
//   - POST /reservations/{reservationID}/accept|reject: organizer decision.
//   - POST /reservations/{reservationID}/cancel: participant cancellation,
//     refused within 24 hours of the start.
//   - GET /reservations/{reservationID}/eligibility: the action flags a UI
//     uses to enable its buttons.
//
// Mutating endpoints and eligibility require the X-Principal-ID header set by
// the upstream gateway. Errors are returned as {"error_code","message","errors"}.
package http
