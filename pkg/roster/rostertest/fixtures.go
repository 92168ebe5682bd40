// Package rostertest provides roster fixtures shared by tests.
package rostertest

import (
	"github.com/perdasilva/dutyroster/pkg/roster"
)

func employee(name, site string, canSun, canAlone, rotation, worked bool) roster.Employee {
	return roster.Employee{
		Name:             name,
		Site:             site,
		CanWorkSunday:    canSun,
		CanWorkAlone:     canAlone,
		SundayRotation:   rotation,
		WorkedLastPeriod: worked,
	}
}

// Employees returns the reference roster: fourteen employees over five
// sites (TV and OH with a single member each), two Sunday rotation
// members and four employees carried over from the previous period.
func Employees() []roster.Employee {
	return []roster.Employee{
		employee("Cong", "QTSC1", true, true, false, false),
		employee("Bao", "QTSC1", true, true, false, true),
		employee("Huy", "QTSC1", true, true, false, false),
		employee("Thang", "QTSC9", true, true, false, false),
		employee("Lam", "QTSC9", true, true, false, false),
		employee("Liem", "QTSC9", true, true, false, false),
		employee("Thinh", "QTSC9", false, false, false, true),
		employee("Mi", "QTSC9", false, false, false, false),
		employee("KietDinh", "QTSC9", true, true, true, false),
		employee("Hoa", "FLE", true, true, false, true),
		employee("Khai", "FLE", true, true, false, false),
		employee("Duong", "FLE", true, true, true, true),
		employee("Hoang", "TV", false, true, false, false),
		employee("KietLat", "OH", false, true, false, false),
	}
}

// Flag returns a copy of employees with WorkedLastPeriod set for the
// named employees.
func Flag(employees []roster.Employee, names ...string) []roster.Employee {
	out := make([]roster.Employee, len(employees))
	copy(out, employees)
	for _, name := range names {
		for i := range out {
			if out[i].Name == name {
				out[i].WorkedLastPeriod = true
			}
		}
	}
	return out
}

// Clear returns a copy of employees with no carry-over flags.
func Clear(employees []roster.Employee) []roster.Employee {
	out := make([]roster.Employee, len(employees))
	copy(out, employees)
	for i := range out {
		out[i].WorkedLastPeriod = false
	}
	return out
}

// Slots returns n full weekends without dates.
func Slots(n int) []roster.WeekendSlot {
	slots := make([]roster.WeekendSlot, n)
	for i := range slots {
		slots[i] = roster.WeekendSlot{Index: i + 1, HasSaturday: true, HasSunday: true}
	}
	return slots
}

// Spec builds a Spec and panics on invalid input.
func Spec(employees []roster.Employee, slots []roster.WeekendSlot) *roster.Spec {
	spec, err := roster.NewSpec(employees, slots)
	if err != nil {
		panic(err)
	}
	return spec
}
