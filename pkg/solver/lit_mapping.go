package solver

import (
	"fmt"
	"strings"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

type DuplicateIdentifier Identifier

func (e DuplicateIdentifier) Error() string {
	return fmt.Sprintf("duplicate identifier %q in input", Identifier(e))
}

type inconsistentLitMapping []error

func (inconsistentLitMapping) Error() string {
	return "internal solver failure"
}

// LitMapping performs translation between the input and output types of
// Solve (Identifiers, Constraints, Assignments) and the variables that
// appear in the SAT formula.
type LitMapping struct {
	inorder     []Identifier
	lits        map[Identifier]z.Lit
	constraints map[z.Lit]Constraint
	applied     []z.Lit
	c           *logic.C
	errs        inconsistentLitMapping
}

// NewLitMapping returns a new LitMapping with its state initialized based on
// the provided variables and constraints. Every constraint is applied to
// the underlying circuit; constraints that are trivially satisfied have no
// useful representation in the SAT inputs and are dropped.
func NewLitMapping(variables []Identifier, constraints []Constraint) (*LitMapping, error) {
	d := LitMapping{
		inorder:     variables,
		lits:        make(map[Identifier]z.Lit, len(variables)),
		constraints: make(map[z.Lit]Constraint, len(constraints)),
		c:           logic.NewCCap(len(variables)),
	}

	// First pass to assign lits:
	for _, id := range variables {
		if _, ok := d.lits[id]; ok {
			return nil, DuplicateIdentifier(id)
		}
		d.lits[id] = d.c.Lit()
	}

	for _, constraint := range constraints {
		m := constraint.Apply(d.c, &d)
		if m == z.LitNull || m == d.c.T {
			continue
		}
		if _, ok := d.constraints[m]; !ok {
			d.constraints[m] = constraint
			d.applied = append(d.applied, m)
		}
	}

	if err := d.Error(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LitOf returns the positive literal corresponding to the variable
// with the given Identifier.
func (d *LitMapping) LitOf(id Identifier) z.Lit {
	m, ok := d.lits[id]
	if ok {
		return m
	}
	d.errs = append(d.errs, fmt.Errorf("variable %q referenced but not provided", id))
	return z.LitNull
}

// Error returns a single error value that is an aggregation of all
// errors encountered during a LitMapping's lifetime, or nil if there have
// been no errors. A non-nil return value likely indicates a problem
// with the model builder or constraint implementations.
func (d *LitMapping) Error() error {
	if len(d.errs) == 0 {
		return nil
	}
	s := make([]string, len(d.errs))
	for i, err := range d.errs {
		s[i] = err.Error()
	}
	return fmt.Errorf("%d errors encountered: %s", len(s), strings.Join(s, ", "))
}

// AddConstraints adds the current constraints encoded in the embedded circuit to the
// solver g
func (d *LitMapping) AddConstraints(g inter.S) {
	d.c.ToCnf(g)
}

// AssumeConstraints assumes the literal of every applied constraint, in
// application order, so that a failed solve can report which of them
// were involved.
func (d *LitMapping) AssumeConstraints(s inter.S) {
	s.Assume(d.applied...)
}

// Assignment reads the value of every variable, in input order, from a
// solver that has just reported a satisfying assignment.
func (d *LitMapping) Assignment(g inter.S) Assignment {
	result := make(Assignment, len(d.inorder))
	for _, id := range d.inorder {
		result[id] = g.Value(d.lits[id])
	}
	return result
}

// Conflicts returns the constraints whose assumptions the solver found
// responsible for unsatisfiability.
func (d *LitMapping) Conflicts(g inter.Assumable) []Constraint {
	whys := g.Why(nil)
	as := make([]Constraint, 0, len(whys))
	seen := make(map[z.Lit]struct{}, len(whys))
	for _, why := range whys {
		if _, ok := seen[why]; ok {
			continue
		}
		seen[why] = struct{}{}
		if a, ok := d.constraints[why]; ok {
			as = append(as, a)
		}
	}
	return as
}

// Len returns the number of constraints with a representation in the
// SAT inputs.
func (d *LitMapping) Len() int {
	return len(d.applied)
}
