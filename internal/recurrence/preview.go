package recurrence

// Preview exposes an expansion result for confirmation. It holds its own
// copy of the slots so callers cannot mutate cached previews.
type Preview struct {
	slots []SlotDescriptor
}

// NewPreview wraps slots.
func NewPreview(slots []SlotDescriptor) Preview {
	return Preview{slots: cloneSlots(slots)}
}

// Count returns the number of generated slots.
func (p Preview) Count() int {
	return len(p.slots)
}

// Slots returns a copy of the generated slots in ascending start order.
func (p Preview) Slots() []SlotDescriptor {
	return cloneSlots(p.slots)
}

// CanConfirm reports whether there is anything to persist.
func (p Preview) CanConfirm() bool {
	return len(p.slots) > 0
}

// First returns the earliest slot.
func (p Preview) First() (SlotDescriptor, bool) {
	if len(p.slots) == 0 {
		return SlotDescriptor{}, false
	}
	return p.slots[0], true
}

// Last returns the latest slot.
func (p Preview) Last() (SlotDescriptor, bool) {
	if len(p.slots) == 0 {
		return SlotDescriptor{}, false
	}
	return p.slots[len(p.slots)-1], true
}

func cloneSlots(slots []SlotDescriptor) []SlotDescriptor {
	if len(slots) == 0 {
		return nil
	}
	out := make([]SlotDescriptor, len(slots))
	copy(out, slots)
	return out
}
