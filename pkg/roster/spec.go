package roster

import (
	"fmt"
	"sort"
)

// Spec is a validated, immutable snapshot of the roster and the
// weekend calendar for one month. Every accessor returns copies, so a
// Spec can be shared freely between attempts.
type Spec struct {
	employees []Employee
	index     map[string]int
	slots     []WeekendSlot
	sites     map[string]*Site
	relaxed   []string
}

// NewSpec validates the roster and calendar and returns a snapshot.
// Slots must be numbered 1..W in order with W of 4 or 5; employee
// names must be unique and every employee needs a site. Rotation
// members must be able to reach the duty target on Sundays alone.
func NewSpec(employees []Employee, slots []WeekendSlot) (*Spec, error) {
	if len(slots) == 0 {
		return nil, configErrorf("weekend calendar is empty")
	}
	if len(slots) != 4 && len(slots) != 5 {
		return nil, configErrorf("%d weekend slots, only 4 or 5 are supported", len(slots))
	}
	for i, slot := range slots {
		if slot.Index != i+1 {
			return nil, configErrorf("slot at position %d has index %d", i+1, slot.Index)
		}
		if slot.Days() == 0 {
			return nil, configErrorf("slot %d has neither a Saturday nor a Sunday", slot.Index)
		}
	}
	if len(employees) == 0 {
		return nil, configErrorf("roster has no employees")
	}

	s := &Spec{
		employees: make([]Employee, len(employees)),
		index:     make(map[string]int, len(employees)),
		slots:     make([]WeekendSlot, len(slots)),
		sites:     make(map[string]*Site),
	}
	copy(s.slots, slots)
	for i, employee := range employees {
		if employee.Name == "" {
			return nil, configErrorf("employee at position %d has no name", i+1)
		}
		if employee.Site == "" {
			return nil, configErrorf("employee %q has no site", employee.Name)
		}
		if _, ok := s.index[employee.Name]; ok {
			return nil, configErrorf("duplicate employee %q", employee.Name)
		}
		s.employees[i] = employee
		s.index[employee.Name] = i
		site, ok := s.sites[employee.Site]
		if !ok {
			site = &Site{Name: employee.Site}
			s.sites[employee.Site] = site
		}
		site.Members = append(site.Members, employee.Name)
	}

	for name, share := range s.RotationQuota() {
		if share != s.TargetDutyDays() {
			return nil, configErrorf("rotation member %q would get %d of %d Sundays but must work %d days",
				name, share, s.SundaySlots(), s.TargetDutyDays())
		}
	}
	return s, nil
}

// Employees returns the roster in input order.
func (s *Spec) Employees() []Employee {
	out := make([]Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

// Employee returns the employee with the given name.
func (s *Spec) Employee(name string) (Employee, bool) {
	i, ok := s.index[name]
	if !ok {
		return Employee{}, false
	}
	return s.employees[i], true
}

func (s *Spec) Slots() []WeekendSlot {
	out := make([]WeekendSlot, len(s.slots))
	copy(out, s.slots)
	return out
}

func (s *Spec) SlotCount() int {
	return len(s.slots)
}

// SundaySlots counts the slots that carry a Sunday.
func (s *Spec) SundaySlots() int {
	n := 0
	for _, slot := range s.slots {
		if slot.HasSunday {
			n++
		}
	}
	return n
}

// TargetDutyDays is the number of duty days every employee works in
// the month: 2 for a four weekend month, 3 otherwise.
func (s *Spec) TargetDutyDays() int {
	if len(s.slots) == 4 {
		return 2
	}
	return 3
}

// Sites returns every site, ordered by name.
func (s *Spec) Sites() []Site {
	out := make([]Site, 0, len(s.sites))
	for _, site := range s.sites {
		members := make([]string, len(site.Members))
		copy(members, site.Members)
		out = append(out, Site{Name: site.Name, Members: members})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// IsSingleOccupant reports whether exactly one employee of the roster
// belongs to site.
func (s *Spec) IsSingleOccupant(site string) bool {
	if st, ok := s.sites[site]; ok {
		return st.IsSingleOccupant()
	}
	return false
}

// Search returns the employees matching predicate, in input order.
func (s *Spec) Search(predicate Predicate) SearchResult {
	out := make(SearchResult, 0)
	for i := range s.employees {
		employee := s.employees[i]
		if predicate(&employee) {
			out = append(out, employee)
		}
	}
	return out
}

// CarryOver returns, in input order, the employees still excluded from
// the first slot because they worked the previous period.
func (s *Spec) CarryOver() []string {
	return s.Search(CarriesOver).Names()
}

// RotationMembers returns the Sunday rotation members ordered by name.
func (s *Spec) RotationMembers() []string {
	return s.Search(RotationMember).Sort(ByName).Names()
}

// RotationQuota splits the month's Sundays across the rotation members.
func (s *Spec) RotationQuota() map[string]int {
	return DistributeQuota(s.SundaySlots(), s.RotationMembers())
}

// DistributeQuota splits total evenly across names in the given order:
// each receives total/len(names) and the first total%len(names) one
// more.
func DistributeQuota(total int, names []string) map[string]int {
	quota := make(map[string]int, len(names))
	if len(names) == 0 {
		return quota
	}
	base, extra := total/len(names), total%len(names)
	for i, name := range names {
		quota[name] = base
		if i < extra {
			quota[name]++
		}
	}
	return quota
}

// Relaxed returns the employees whose carry-over exclusion was lifted
// to produce this snapshot, in the order they were relaxed.
func (s *Spec) Relaxed() []string {
	out := make([]string, len(s.relaxed))
	copy(out, s.relaxed)
	return out
}

// WithRelaxed returns a new snapshot in which the named employees no
// longer carry the previous period over. The receiver is left
// unchanged. Names already relaxed are not recorded twice.
func (s *Spec) WithRelaxed(names ...string) (*Spec, error) {
	next := &Spec{
		employees: make([]Employee, len(s.employees)),
		index:     s.index,
		slots:     s.slots,
		sites:     s.sites,
		relaxed:   make([]string, len(s.relaxed), len(s.relaxed)+len(names)),
	}
	copy(next.employees, s.employees)
	copy(next.relaxed, s.relaxed)

	seen := make(map[string]struct{}, len(next.relaxed))
	for _, name := range next.relaxed {
		seen[name] = struct{}{}
	}
	for _, name := range names {
		i, ok := next.index[name]
		if !ok {
			return nil, fmt.Errorf("cannot relax unknown employee %q", name)
		}
		next.employees[i].WorkedLastPeriod = false
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			next.relaxed = append(next.relaxed, name)
		}
	}
	return next, nil
}
