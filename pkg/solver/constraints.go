package solver

import (
	"fmt"
	"strings"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Constraint implementations restrict the assignments a solution may
// contain. Apply encodes the restriction into the circuit and returns
// the literal that must hold for the constraint to be satisfied.
type Constraint interface {
	Apply(c *logic.C, lm *LitMapping) z.Lit
	String() string
}

func joinIds(ids []Identifier) string {
	s := make([]string, len(ids))
	for i, each := range ids {
		s[i] = string(each)
	}
	return strings.Join(s, ", ")
}

func litsOf(lm *LitMapping, ids []Identifier) []z.Lit {
	ms := make([]z.Lit, len(ids))
	for i, each := range ids {
		ms[i] = lm.LitOf(each)
	}
	return ms
}

type mandatory struct {
	subject Identifier
}

func (constraint *mandatory) String() string {
	return fmt.Sprintf("%s is mandatory", constraint.subject)
}

func (constraint *mandatory) Apply(_ *logic.C, lm *LitMapping) z.Lit {
	return lm.LitOf(constraint.subject)
}

// Mandatory returns a Constraint that only permits solutions in which
// the given variable is true.
func Mandatory(subject Identifier) Constraint {
	return &mandatory{
		subject: subject,
	}
}

type prohibited struct {
	subject Identifier
}

func (constraint *prohibited) Apply(_ *logic.C, lm *LitMapping) z.Lit {
	return lm.LitOf(constraint.subject).Not()
}

func (constraint *prohibited) String() string {
	return fmt.Sprintf("%s is prohibited", constraint.subject)
}

// Prohibited returns a Constraint that only permits solutions in which
// the given variable is false.
func Prohibited(subject Identifier) Constraint {
	return &prohibited{
		subject: subject,
	}
}

type conflict struct {
	subject  Identifier
	conflict Identifier
}

func (constraint *conflict) String() string {
	return fmt.Sprintf("%s conflicts with %s", constraint.subject, constraint.conflict)
}

func (constraint *conflict) Apply(c *logic.C, lm *LitMapping) z.Lit {
	return c.Or(lm.LitOf(constraint.subject).Not(), lm.LitOf(constraint.conflict).Not())
}

// Conflict returns a Constraint that will permit solutions containing
// either the subject, the conflicting variable, or neither, but not
// both.
func Conflict(subject Identifier, conflicting Identifier) Constraint {
	return &conflict{
		subject:  subject,
		conflict: conflicting,
	}
}

type atMost struct {
	ids []Identifier
	n   int
}

func (constraint *atMost) String() string {
	return fmt.Sprintf("at most %d of %s are permitted", constraint.n, joinIds(constraint.ids))
}

func (constraint *atMost) Apply(c *logic.C, lm *LitMapping) z.Lit {
	if constraint.n < 0 {
		return c.F
	}
	if constraint.n >= len(constraint.ids) {
		return c.T
	}
	return c.CardSort(litsOf(lm, constraint.ids)).Leq(constraint.n)
}

// AtMost returns a Constraint that forbids solutions that contain
// more than n of the variables identified by the given Identifiers.
func AtMost(n int, ids ...Identifier) Constraint {
	return &atMost{
		ids: ids,
		n:   n,
	}
}

type atLeast struct {
	ids []Identifier
	n   int
}

func (constraint *atLeast) String() string {
	return fmt.Sprintf("at least %d of %s are required", constraint.n, joinIds(constraint.ids))
}

func (constraint *atLeast) Apply(c *logic.C, lm *LitMapping) z.Lit {
	if constraint.n <= 0 {
		return c.T
	}
	if constraint.n > len(constraint.ids) {
		return c.F
	}
	return c.CardSort(litsOf(lm, constraint.ids)).Geq(constraint.n)
}

// AtLeast returns a Constraint that forbids solutions that contain
// fewer than n of the variables identified by the given Identifiers.
func AtLeast(n int, ids ...Identifier) Constraint {
	return &atLeast{
		ids: ids,
		n:   n,
	}
}

type exactly struct {
	ids []Identifier
	n   int
}

func (constraint *exactly) String() string {
	return fmt.Sprintf("exactly %d of %s are required", constraint.n, joinIds(constraint.ids))
}

func (constraint *exactly) Apply(c *logic.C, lm *LitMapping) z.Lit {
	if constraint.n < 0 || constraint.n > len(constraint.ids) {
		return c.F
	}
	if len(constraint.ids) == 0 {
		return c.T
	}
	cs := c.CardSort(litsOf(lm, constraint.ids))
	return c.And(cs.Leq(constraint.n), cs.Geq(constraint.n))
}

// Exactly returns a Constraint that only permits solutions containing
// exactly n of the variables identified by the given Identifiers.
func Exactly(n int, ids ...Identifier) Constraint {
	return &exactly{
		ids: ids,
		n:   n,
	}
}

type equivalent struct {
	left  []Identifier
	right []Identifier
}

func (constraint *equivalent) String() string {
	return fmt.Sprintf("any of %s holds iff any of %s holds", joinIds(constraint.left), joinIds(constraint.right))
}

func (constraint *equivalent) Apply(c *logic.C, lm *LitMapping) z.Lit {
	l := c.Ors(litsOf(lm, constraint.left)...)
	r := c.Ors(litsOf(lm, constraint.right)...)
	return c.And(c.Or(l.Not(), r), c.Or(r.Not(), l))
}

// Equivalent returns a Constraint requiring that at least one of the
// left variables is true exactly when at least one of the right
// variables is true. When each side is already limited to a single
// true variable this is equality of the two sums.
func Equivalent(left []Identifier, right []Identifier) Constraint {
	return &equivalent{
		left:  left,
		right: right,
	}
}

type labeled struct {
	label      string
	constraint Constraint
}

func (constraint *labeled) String() string {
	return constraint.label
}

func (constraint *labeled) Apply(c *logic.C, lm *LitMapping) z.Lit {
	return constraint.constraint.Apply(c, lm)
}

// Labeled wraps a Constraint so that it reports the given human
// readable label instead of its structural description.
func Labeled(label string, constraint Constraint) Constraint {
	return &labeled{
		label:      label,
		constraint: constraint,
	}
}

type and struct {
	clauses []Constraint
}

func And(clauses ...Constraint) Constraint {
	return &and{
		clauses: clauses,
	}
}

func (constraint *and) String() string {
	s := make([]string, len(constraint.clauses))
	for i, clause := range constraint.clauses {
		s[i] = clause.String()
	}
	return fmt.Sprintf("%s are required", strings.Join(s, " and "))
}

func (constraint *and) Apply(c *logic.C, lm *LitMapping) z.Lit {
	terms := make([]z.Lit, len(constraint.clauses))
	for i, clause := range constraint.clauses {
		terms[i] = clause.Apply(c, lm)
	}
	return c.Ands(terms...)
}

type or struct {
	clauses []Constraint
}

func Or(clauses ...Constraint) Constraint {
	return &or{
		clauses: clauses,
	}
}

func (constraint *or) String() string {
	s := make([]string, len(constraint.clauses))
	for i, clause := range constraint.clauses {
		s[i] = clause.String()
	}
	return fmt.Sprintf("%s are required", strings.Join(s, " or "))
}

func (constraint *or) Apply(c *logic.C, lm *LitMapping) z.Lit {
	terms := make([]z.Lit, len(constraint.clauses))
	for i, clause := range constraint.clauses {
		terms[i] = clause.Apply(c, lm)
	}
	return c.Ors(terms...)
}

type not struct {
	clause Constraint
}

func Not(clause Constraint) Constraint {
	return &not{
		clause: clause,
	}
}

func (constraint *not) String() string {
	return fmt.Sprintf("not %s", constraint.clause.String())
}

func (constraint *not) Apply(c *logic.C, lm *LitMapping) z.Lit {
	return constraint.clause.Apply(c, lm).Not()
}
