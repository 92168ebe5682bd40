package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-air/gini"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single solve when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Status is the terminal state of one solve.
type Status int

const (
	// Unknown means the solver gave up before reaching a verdict,
	// normally because the time budget ran out.
	Unknown Status = iota
	Satisfied
	Unsatisfiable
)

func (s Status) String() string {
	switch s {
	case Satisfied:
		return "Satisfied"
	case Unsatisfiable:
		return "Unsatisfiable"
	default:
		return "Unknown"
	}
}

// NotSatisfiable is an error composed of a set of applied constraints
// that is sufficient to make a solution impossible.
type NotSatisfiable []Constraint

func (e NotSatisfiable) Error() string {
	const msg = "constraints not satisfiable"
	if len(e) == 0 {
		return msg
	}
	s := make([]string, len(e))
	for i, a := range e {
		s[i] = a.String()
	}
	return fmt.Sprintf("%s: %s", msg, strings.Join(s, ", "))
}

// Problem is a pure feasibility problem: a set of boolean decision
// variables and the constraints every solution must satisfy.
type Problem struct {
	Variables   []Identifier
	Constraints []Constraint
}

// Result reports the outcome of one solve. Assignment is only set when
// Status is Satisfied and Conflicts only when Status is Unsatisfiable.
type Result struct {
	Status     Status
	Assignment Assignment
	Conflicts  NotSatisfiable
	Duration   time.Duration
}

// Engine finds any assignment satisfying a Problem.
type Engine interface {
	Solve(ctx context.Context, problem *Problem) (*Result, error)
}

type Option func(engine *GiniEngine)

// WithTimeout sets the wall-clock budget of each solve. A non-positive
// timeout lets the solver run until it reaches a verdict.
func WithTimeout(timeout time.Duration) Option {
	return func(engine *GiniEngine) {
		engine.timeout = timeout
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(engine *GiniEngine) {
		if logger != nil {
			engine.logger = logger
		}
	}
}

// GiniEngine is an Engine backed by the gini SAT solver. Every call to
// Solve builds a fresh circuit and solver instance, so a GiniEngine may
// be reused across independent problems.
type GiniEngine struct {
	timeout time.Duration
	logger  *zap.Logger
}

var _ Engine = &GiniEngine{}

func New(options ...Option) *GiniEngine {
	engine := &GiniEngine{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

func (s *GiniEngine) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	if problem == nil {
		return nil, errors.New("solver: nil problem")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	lm, err := NewLitMapping(problem.Variables, problem.Constraints)
	if err != nil {
		return nil, err
	}

	g := gini.New()
	lm.AddConstraints(g)
	lm.AssumeConstraints(g)

	budget := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, context.DeadlineExceeded
		}
		if budget <= 0 || remaining < budget {
			budget = remaining
		}
	}

	var outcome int
	if budget > 0 {
		outcome = g.GoSolve().Try(budget)
	} else {
		outcome = g.Solve()
	}

	result := &Result{Duration: time.Since(start)}
	switch outcome {
	case 1:
		result.Status = Satisfied
		result.Assignment = lm.Assignment(g)
	case -1:
		result.Status = Unsatisfiable
		result.Conflicts = lm.Conflicts(g)
	default:
		result.Status = Unknown
	}

	s.logger.Debug("solve finished",
		zap.Int("variables", len(problem.Variables)),
		zap.Int("constraints", lm.Len()),
		zap.Stringer("status", result.Status),
		zap.Duration("duration", result.Duration))

	return result, nil
}
