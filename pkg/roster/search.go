package roster

import "sort"

type Predicate func(employee *Employee) bool

func And(predicates ...Predicate) Predicate {
	return func(employee *Employee) bool {
		eval := true
		for _, predicate := range predicates {
			eval = eval && predicate(employee)
			if !eval {
				return false
			}
		}
		return eval
	}
}

func Or(predicates ...Predicate) Predicate {
	return func(employee *Employee) bool {
		eval := false
		for _, predicate := range predicates {
			eval = eval || predicate(employee)
			if eval {
				return true
			}
		}
		return eval
	}
}

func Not(predicate Predicate) Predicate {
	return func(employee *Employee) bool {
		return !predicate(employee)
	}
}

// InSite matches employees whose home site is one of sites.
func InSite(sites ...string) Predicate {
	return func(employee *Employee) bool {
		for _, site := range sites {
			if employee.Site == site {
				return true
			}
		}
		return false
	}
}

func RotationMember(employee *Employee) bool {
	return employee.SundayRotation
}

func SundayEligible(employee *Employee) bool {
	return employee.CanWorkSunday
}

func SoloEligible(employee *Employee) bool {
	return employee.CanWorkAlone
}

func CarriesOver(employee *Employee) bool {
	return employee.WorkedLastPeriod
}

type SearchResult []Employee
type SortFunction func(e1 *Employee, e2 *Employee) bool

func (r SearchResult) Sort(fn SortFunction) SearchResult {
	sort.SliceStable(r, func(i, j int) bool {
		return fn(&r[i], &r[j])
	})
	return r
}

func (r SearchResult) Names() []string {
	names := make([]string, len(r))
	for i := range r {
		names[i] = r[i].Name
	}
	return names
}

// ByName orders employees by name.
func ByName(e1 *Employee, e2 *Employee) bool {
	return e1.Name < e2.Name
}

// BySiteThenName orders employees by site, then by name within a site.
func BySiteThenName(e1 *Employee, e2 *Employee) bool {
	if e1.Site != e2.Site {
		return e1.Site < e2.Site
	}
	return e1.Name < e2.Name
}
