// Package schedule projects a solved assignment into a per-employee
// duty table.
package schedule

import (
	"fmt"

	"github.com/perdasilva/dutyroster/pkg/model"
	"github.com/perdasilva/dutyroster/pkg/roster"
	"github.com/perdasilva/dutyroster/pkg/solver"
)

// Label describes what an employee works on one weekend.
type Label string

const (
	LabelSaturday Label = "Saturday"
	LabelSunday   Label = "Sunday"
	LabelBoth     Label = "Saturday+Sunday"
	LabelNone     Label = "none"
)

// Short returns the compact form used in printed tables. Weekends off
// are blank.
func (l Label) Short() string {
	switch l {
	case LabelSaturday:
		return "Sat"
	case LabelSunday:
		return "Sun"
	case LabelBoth:
		return "Sat+Sun"
	default:
		return ""
	}
}

func labelOf(sat, sun bool) Label {
	switch {
	case sat && sun:
		return LabelBoth
	case sat:
		return LabelSaturday
	case sun:
		return LabelSunday
	default:
		return LabelNone
	}
}

// Row is one employee's month.
type Row struct {
	Site          string
	Name          string
	Days          []Label
	SaturdayCount int
	SundayCount   int
	TotalDutyDays int
	// Relaxed is set when the employee's carry-over exclusion was lifted.
	Relaxed bool
}

// Table is the solved roster, rows ordered by site then name.
type Table struct {
	Slots          []roster.WeekendSlot
	Rows           []Row
	Relaxed        []string
	TargetDutyDays int
}

// Assemble builds the table for spec from a satisfying assignment.
// Both arguments are required.
func Assemble(spec *roster.Spec, assignment solver.Assignment) *Table {
	if spec == nil || assignment == nil {
		panic("schedule: Assemble requires a roster and an assignment")
	}

	relaxed := make(map[string]bool)
	for _, name := range spec.Relaxed() {
		relaxed[name] = true
	}

	table := &Table{
		Slots:          spec.Slots(),
		Relaxed:        spec.Relaxed(),
		TargetDutyDays: spec.TargetDutyDays(),
	}
	for _, employee := range roster.SearchResult(spec.Employees()).Sort(roster.BySiteThenName) {
		row := Row{
			Site:    employee.Site,
			Name:    employee.Name,
			Days:    make([]Label, len(table.Slots)),
			Relaxed: relaxed[employee.Name],
		}
		for i, slot := range table.Slots {
			sat := assignment.Value(model.SaturdayVar(employee.Name, slot.Index))
			sun := assignment.Value(model.SundayVar(employee.Name, slot.Index))
			if sat {
				row.SaturdayCount++
			}
			if sun {
				row.SundayCount++
			}
			row.Days[i] = labelOf(sat, sun)
		}
		row.TotalDutyDays = row.SaturdayCount + row.SundayCount
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Sites returns the rows grouped by site, in table order.
func (t *Table) Sites() []SiteRows {
	var groups []SiteRows
	for _, row := range t.Rows {
		if len(groups) == 0 || groups[len(groups)-1].Site != row.Site {
			groups = append(groups, SiteRows{Site: row.Site})
		}
		groups[len(groups)-1].Rows = append(groups[len(groups)-1].Rows, row)
	}
	return groups
}

type SiteRows struct {
	Site string
	Rows []Row
}

// SlotHeader names the weekend at position i, with its dates when the
// calendar supplied them.
func (t *Table) SlotHeader(i int) string {
	slot := t.Slots[i]
	header := fmt.Sprintf("Week%d", slot.Index)
	if !slot.HasDates() {
		return header
	}
	switch {
	case slot.HasSaturday && slot.HasSunday:
		return fmt.Sprintf("%s (%s-%s)", header, slot.Saturday.Format("02/01"), slot.Sunday.Format("02/01"))
	case slot.HasSaturday:
		return fmt.Sprintf("%s (%s)", header, slot.Saturday.Format("02/01"))
	default:
		return fmt.Sprintf("%s (%s)", header, slot.Sunday.Format("02/01"))
	}
}

// Totals counts the duty days worked on each weekend.
func (t *Table) Totals() (saturdays, sundays []int) {
	saturdays = make([]int, len(t.Slots))
	sundays = make([]int, len(t.Slots))
	for _, row := range t.Rows {
		for i, label := range row.Days {
			if label == LabelSaturday || label == LabelBoth {
				saturdays[i]++
			}
			if label == LabelSunday || label == LabelBoth {
				sundays[i]++
			}
		}
	}
	return saturdays, sundays
}
