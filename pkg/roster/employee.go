package roster

// Employee is one member of the duty roster. Values are treated as
// immutable; relaxation produces a new Spec instead of editing them.
type Employee struct {
	Name             string
	Site             string
	CanWorkSunday    bool
	CanWorkAlone     bool
	SundayRotation   bool
	WorkedLastPeriod bool
}

// NewEmployee returns an employee with the default flags: Sunday duty
// and solo duty allowed, not in the Sunday rotation and not carried
// over from the previous period.
func NewEmployee(name, site string) Employee {
	return Employee{
		Name:          name,
		Site:          site,
		CanWorkSunday: true,
		CanWorkAlone:  true,
	}
}

// Site groups the employees sharing a home site.
type Site struct {
	Name    string
	Members []string
}

// IsSingleOccupant reports whether exactly one employee of the whole
// roster belongs to the site.
func (s Site) IsSingleOccupant() bool {
	return len(s.Members) == 1
}
