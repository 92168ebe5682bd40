package model

import (
	"fmt"
	"strings"

	"github.com/perdasilva/dutyroster/pkg/roster"
	"github.com/perdasilva/dutyroster/pkg/solver"
)

// Family is one group of related duty rules. A family reads everything
// it needs from the Spec and encodes it as solver constraints over the
// variables returned by Variables.
type Family interface {
	Name() string
	Constraints(spec *roster.Spec) []solver.Constraint
}

// DefaultCrossSites are the sites that together must cover every
// weekend.
var DefaultCrossSites = []string{"OH", "TV"}

// DefaultFamilies returns the complete duty rule set in application
// order.
func DefaultFamilies(crossSites ...string) []Family {
	if len(crossSites) == 0 {
		crossSites = DefaultCrossSites
	}
	return []Family{
		SundayHeadcount{},
		Eligibility{},
		MutualExclusion{},
		SiteCoverage{},
		NoSolo{},
		CrossSiteCoverage{Sites: crossSites},
		CarryOverExclusion{},
		RotationQuota{},
		NonRotationSundayCap{},
		TotalDutyQuota{},
		Spacing{},
	}
}

func names(employees []roster.Employee) []string {
	out := make([]string, len(employees))
	for i, e := range employees {
		out[i] = e.Name
	}
	return out
}

// SundayHeadcount staffs every Sunday with exactly two employees, at
// least one of them from the rotation when the rotation is not empty.
// Sunday variables of slots without a Sunday are forced off.
type SundayHeadcount struct{}

func (SundayHeadcount) Name() string { return "sunday-headcount" }

func (SundayHeadcount) Constraints(spec *roster.Spec) []solver.Constraint {
	everyone := names(spec.Employees())
	rotation := spec.Search(roster.RotationMember).Names()

	var cs []solver.Constraint
	for _, slot := range spec.Slots() {
		if !slot.HasSunday {
			for _, name := range everyone {
				cs = append(cs, solver.Labeled(
					fmt.Sprintf("slot %d has no Sunday: %s is off", slot.Index, name),
					solver.Prohibited(SundayVar(name, slot.Index))))
			}
			continue
		}
		cs = append(cs, solver.Labeled(
			fmt.Sprintf("slot %d: exactly 2 on Sunday", slot.Index),
			solver.Exactly(2, dayVars(Sunday, everyone, slot.Index)...)))
		if len(rotation) > 0 {
			cs = append(cs, solver.Labeled(
				fmt.Sprintf("slot %d: a rotation member works Sunday", slot.Index),
				solver.AtLeast(1, dayVars(Sunday, rotation, slot.Index)...)))
		}
	}
	return cs
}

// Eligibility keeps employees off days they cannot work: Sundays for
// those who cannot work Sundays, and Saturdays of slots without one.
type Eligibility struct{}

func (Eligibility) Name() string { return "eligibility" }

func (Eligibility) Constraints(spec *roster.Spec) []solver.Constraint {
	noSunday := spec.Search(roster.Not(roster.SundayEligible)).Names()
	everyone := names(spec.Employees())

	var cs []solver.Constraint
	for _, slot := range spec.Slots() {
		for _, name := range noSunday {
			cs = append(cs, solver.Labeled(
				fmt.Sprintf("%s cannot work Sundays (slot %d)", name, slot.Index),
				solver.Prohibited(SundayVar(name, slot.Index))))
		}
		if slot.HasSaturday {
			continue
		}
		for _, name := range everyone {
			cs = append(cs, solver.Labeled(
				fmt.Sprintf("slot %d has no Saturday: %s is off", slot.Index, name),
				solver.Prohibited(SaturdayVar(name, slot.Index))))
		}
	}
	return cs
}

// MutualExclusion allows at most one duty day per employee and weekend.
type MutualExclusion struct{}

func (MutualExclusion) Name() string { return "mutual-exclusion" }

func (MutualExclusion) Constraints(spec *roster.Spec) []solver.Constraint {
	var cs []solver.Constraint
	for _, employee := range spec.Employees() {
		for _, slot := range spec.Slots() {
			cs = append(cs, solver.Labeled(
				fmt.Sprintf("%s works one day of slot %d at most", employee.Name, slot.Index),
				solver.Conflict(SaturdayVar(employee.Name, slot.Index), SundayVar(employee.Name, slot.Index))))
		}
	}
	return cs
}

// SiteCoverage requires a Saturday worker from every site with more
// than one member, on every weekend that has a Saturday.
type SiteCoverage struct{}

func (SiteCoverage) Name() string { return "site-coverage" }

func (SiteCoverage) Constraints(spec *roster.Spec) []solver.Constraint {
	var cs []solver.Constraint
	for _, slot := range spec.Slots() {
		if !slot.HasSaturday {
			continue
		}
		for _, site := range spec.Sites() {
			if site.IsSingleOccupant() {
				continue
			}
			cs = append(cs, solver.Labeled(
				fmt.Sprintf("slot %d: site %s needs a Saturday worker", slot.Index, site.Name),
				solver.AtLeast(1, dayVars(Saturday, site.Members, slot.Index)...)))
		}
	}
	return cs
}

// NoSolo requires, for every employee who cannot work alone, at least
// two Saturday workers from their site on every weekend with a
// Saturday.
type NoSolo struct{}

func (NoSolo) Name() string { return "no-solo" }

func (NoSolo) Constraints(spec *roster.Spec) []solver.Constraint {
	members := make(map[string][]string)
	for _, site := range spec.Sites() {
		members[site.Name] = site.Members
	}

	var cs []solver.Constraint
	for _, employee := range spec.Search(roster.Not(roster.SoloEligible)) {
		for _, slot := range spec.Slots() {
			if !slot.HasSaturday {
				continue
			}
			cs = append(cs, solver.Labeled(
				fmt.Sprintf("slot %d: %s cannot work alone, site %s needs 2 on Saturday", slot.Index, employee.Name, employee.Site),
				solver.AtLeast(2, dayVars(Saturday, members[employee.Site], slot.Index)...)))
		}
	}
	return cs
}

// CrossSiteCoverage requires the members of Sites, taken together, to
// work at least one day of every weekend. It does nothing when no
// employee belongs to any of the sites.
type CrossSiteCoverage struct {
	Sites []string
}

func (CrossSiteCoverage) Name() string { return "cross-site-coverage" }

func (f CrossSiteCoverage) Constraints(spec *roster.Spec) []solver.Constraint {
	members := spec.Search(roster.InSite(f.Sites...)).Names()
	if len(members) == 0 {
		return nil
	}

	var cs []solver.Constraint
	for _, slot := range spec.Slots() {
		if slot.Days() == 0 {
			continue
		}
		var ids []solver.Identifier
		for _, name := range members {
			if slot.HasSaturday {
				ids = append(ids, SaturdayVar(name, slot.Index))
			}
			if slot.HasSunday {
				ids = append(ids, SundayVar(name, slot.Index))
			}
		}
		cs = append(cs, solver.Labeled(
			fmt.Sprintf("slot %d: %s must cover a day", slot.Index, strings.Join(f.Sites, "+")),
			solver.AtLeast(1, ids...)))
	}
	return cs
}

// CarryOverExclusion keeps employees who worked the previous period off
// the first weekend. It is the only family relaxation acts on.
type CarryOverExclusion struct{}

func (CarryOverExclusion) Name() string { return "carry-over" }

func (CarryOverExclusion) Constraints(spec *roster.Spec) []solver.Constraint {
	slots := spec.Slots()
	if len(slots) == 0 {
		return nil
	}
	first := slots[0].Index

	var cs []solver.Constraint
	for _, name := range spec.CarryOver() {
		cs = append(cs, solver.Labeled(
			fmt.Sprintf("%s worked last period and is off in slot %d", name, first),
			solver.Not(solver.Or(
				solver.Mandatory(SaturdayVar(name, first)),
				solver.Mandatory(SundayVar(name, first)),
			))))
	}
	return cs
}

// RotationQuota restricts rotation members to Sundays and gives each
// their share of the month's Sundays.
type RotationQuota struct{}

func (RotationQuota) Name() string { return "rotation-quota" }

func (RotationQuota) Constraints(spec *roster.Spec) []solver.Constraint {
	slots := spec.Slots()
	quota := spec.RotationQuota()

	var cs []solver.Constraint
	for _, name := range spec.RotationMembers() {
		for _, slot := range slots {
			cs = append(cs, solver.Labeled(
				fmt.Sprintf("%s is on the Sunday rotation: no Saturday in slot %d", name, slot.Index),
				solver.Prohibited(SaturdayVar(name, slot.Index))))
		}
		cs = append(cs, solver.Labeled(
			fmt.Sprintf("%s works exactly %d Sundays", name, quota[name]),
			solver.Exactly(quota[name], monthVars(Sunday, name, slots)...)))
	}
	return cs
}

// NonRotationSundayCap limits employees outside the rotation to one
// Sunday a month.
type NonRotationSundayCap struct{}

func (NonRotationSundayCap) Name() string { return "non-rotation-sunday-cap" }

func (NonRotationSundayCap) Constraints(spec *roster.Spec) []solver.Constraint {
	slots := spec.Slots()
	var cs []solver.Constraint
	for _, name := range spec.Search(roster.Not(roster.RotationMember)).Names() {
		cs = append(cs, solver.Labeled(
			fmt.Sprintf("%s works at most 1 Sunday", name),
			solver.AtMost(1, monthVars(Sunday, name, slots)...)))
	}
	return cs
}

// TotalDutyQuota makes every employee work exactly the target number of
// duty days in the month.
type TotalDutyQuota struct{}

func (TotalDutyQuota) Name() string { return "total-duty-quota" }

func (TotalDutyQuota) Constraints(spec *roster.Spec) []solver.Constraint {
	slots := spec.Slots()
	target := spec.TargetDutyDays()
	var cs []solver.Constraint
	for _, employee := range spec.Employees() {
		cs = append(cs, solver.Labeled(
			fmt.Sprintf("%s works exactly %d days", employee.Name, target),
			solver.Exactly(target, windowVars(employee.Name, slots)...)))
	}
	return cs
}

// Spacing spreads each employee's duty over the month. In a four
// weekend month nobody works two weekends in a row and weekends 1 and 3
// (and 2 and 4) are worked together or not at all. In longer months any
// three consecutive weekends hold at most two duty days.
type Spacing struct{}

func (Spacing) Name() string { return "spacing" }

func (Spacing) Constraints(spec *roster.Spec) []solver.Constraint {
	slots := spec.Slots()
	var cs []solver.Constraint
	for _, employee := range spec.Employees() {
		name := employee.Name
		if len(slots) == 4 {
			for i := 0; i+1 < len(slots); i++ {
				cs = append(cs, solver.Labeled(
					fmt.Sprintf("%s does not work slots %d and %d back to back", name, slots[i].Index, slots[i+1].Index),
					solver.AtMost(1, windowVars(name, slots[i:i+2])...)))
			}
			for i := 0; i+2 < len(slots); i++ {
				cs = append(cs, solver.Labeled(
					fmt.Sprintf("%s works slot %d iff slot %d", name, slots[i].Index, slots[i+2].Index),
					solver.Equivalent(windowVars(name, slots[i:i+1]), windowVars(name, slots[i+2:i+3]))))
			}
			continue
		}
		for i := 0; i+2 < len(slots); i++ {
			cs = append(cs, solver.Labeled(
				fmt.Sprintf("%s works at most 2 days in slots %d-%d", name, slots[i].Index, slots[i+2].Index),
				solver.AtMost(2, windowVars(name, slots[i:i+3])...)))
		}
	}
	return cs
}
