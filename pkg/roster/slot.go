package roster

import "time"

// WeekendSlot is one weekend of the month. A month starting mid-week
// may begin with a Sunday-only slot and one ending mid-week may finish
// with a Saturday-only slot. Dates are zero when the slot was not
// derived from a calendar.
type WeekendSlot struct {
	Index       int
	HasSaturday bool
	HasSunday   bool
	Saturday    time.Time
	Sunday      time.Time
}

// Days returns the number of duty days the slot carries.
func (s WeekendSlot) Days() int {
	n := 0
	if s.HasSaturday {
		n++
	}
	if s.HasSunday {
		n++
	}
	return n
}

// HasDates reports whether the slot carries concrete calendar dates.
func (s WeekendSlot) HasDates() bool {
	return !s.Saturday.IsZero() || !s.Sunday.IsZero()
}
