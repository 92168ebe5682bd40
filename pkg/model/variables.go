package model

import (
	"fmt"

	"github.com/perdasilva/dutyroster/pkg/roster"
	"github.com/perdasilva/dutyroster/pkg/solver"
)

// Day is one of the two duty days of a weekend.
type Day int

const (
	Saturday Day = iota
	Sunday
)

func (d Day) String() string {
	if d == Sunday {
		return "sun"
	}
	return "sat"
}

// Var identifies the decision "employee works day of slot".
func Var(day Day, employee string, slot int) solver.Identifier {
	return solver.IdentifierFromString(fmt.Sprintf("%s/%s/%d", day, employee, slot))
}

func SaturdayVar(employee string, slot int) solver.Identifier {
	return Var(Saturday, employee, slot)
}

func SundayVar(employee string, slot int) solver.Identifier {
	return Var(Sunday, employee, slot)
}

// DutyVars returns both day variables of employee in slot.
func DutyVars(employee string, slot int) []solver.Identifier {
	return []solver.Identifier{SaturdayVar(employee, slot), SundayVar(employee, slot)}
}

// Variables lists every decision variable of spec: for each employee in
// roster order and each slot, the Saturday then the Sunday variable.
func Variables(spec *roster.Spec) []solver.Identifier {
	employees := spec.Employees()
	slots := spec.Slots()
	ids := make([]solver.Identifier, 0, 2*len(employees)*len(slots))
	for _, employee := range employees {
		for _, slot := range slots {
			ids = append(ids, DutyVars(employee.Name, slot.Index)...)
		}
	}
	return ids
}

func dayVars(day Day, names []string, slot int) []solver.Identifier {
	ids := make([]solver.Identifier, len(names))
	for i, name := range names {
		ids[i] = Var(day, name, slot)
	}
	return ids
}

func monthVars(day Day, name string, slots []roster.WeekendSlot) []solver.Identifier {
	ids := make([]solver.Identifier, len(slots))
	for i, slot := range slots {
		ids[i] = Var(day, name, slot.Index)
	}
	return ids
}

func windowVars(name string, slots []roster.WeekendSlot) []solver.Identifier {
	ids := make([]solver.Identifier, 0, 2*len(slots))
	for _, slot := range slots {
		ids = append(ids, DutyVars(name, slot.Index)...)
	}
	return ids
}
