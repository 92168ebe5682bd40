// Package calendar derives the weekend slots of a month.
package calendar

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"github.com/perdasilva/dutyroster/pkg/roster"
)

// Weekends returns the weekends of the given month in chronological
// order. A month starting on a Sunday opens with a Sunday-only slot and
// a month ending on a Saturday closes with a Saturday-only slot.
func Weekends(year int, month time.Month) ([]roster.WeekendSlot, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	if year < 1 {
		return nil, fmt.Errorf("invalid year %d", year)
	}

	first := now.With(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	start, end := first.BeginningOfMonth(), first.EndOfMonth()

	var slots []roster.WeekendSlot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Saturday:
			slots = append(slots, roster.WeekendSlot{
				Index:       len(slots) + 1,
				HasSaturday: true,
				Saturday:    day,
			})
		case time.Sunday:
			if len(slots) == 0 || !slots[len(slots)-1].HasSaturday ||
				!slots[len(slots)-1].Saturday.AddDate(0, 0, 1).Equal(day) {
				slots = append(slots, roster.WeekendSlot{Index: len(slots) + 1})
			}
			last := &slots[len(slots)-1]
			last.HasSunday = true
			last.Sunday = day
		}
	}
	return slots, nil
}

// Uniform returns n full weekends without dates, for callers that only
// know how many weekends the month has.
func Uniform(n int) []roster.WeekendSlot {
	slots := make([]roster.WeekendSlot, 0, n)
	for i := 1; i <= n; i++ {
		slots = append(slots, roster.WeekendSlot{Index: i, HasSaturday: true, HasSunday: true})
	}
	return slots
}
