package domain

// AvailabilitySlot represents a discrete, offerable block of time a
// viewing can be booked into. Generated on demand, never persisted.
type AvailabilitySlot struct {
	Interval        TimeInterval
	DurationMinutes int
	Available       bool
}

// StartsAt returns true if the slot begins at the same instant as other
func (s *AvailabilitySlot) StartsAt(other TimeInterval) bool {
	return s.Interval.Start.Equal(other.Start)
}

// Matches returns true if the slot covers exactly the given interval
func (s *AvailabilitySlot) Matches(other TimeInterval) bool {
	return s.Interval.Start.Equal(other.Start) && s.Interval.End.Equal(other.End)
}
