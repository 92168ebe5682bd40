package solver

// Identifier values uniquely identify particular decision variables
// within the input to a single call to Solve.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// IdentifierFromString returns an Identifier based on a provided
// string.
func IdentifierFromString(s string) Identifier {
	return Identifier(s)
}

// Assignment holds the value chosen for every decision variable of a
// satisfied problem.
type Assignment map[Identifier]bool

// Value returns the value assigned to id. Variables absent from the
// assignment read as false.
func (a Assignment) Value(id Identifier) bool {
	return a[id]
}

// Count returns how many of the given variables are true.
func (a Assignment) Count(ids ...Identifier) int {
	n := 0
	for _, id := range ids {
		if a[id] {
			n++
		}
	}
	return n
}
