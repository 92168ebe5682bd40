/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controllers

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/perdasilva/dutyroster/pkg/roster"
	"github.com/perdasilva/dutyroster/pkg/solver"
)

// DefaultSeed seeds the relaxation order when no generator is supplied.
const DefaultSeed int64 = 42

// Phase is the state of a relaxation run.
type Phase string

const (
	PhaseInitial    Phase = "Initial"
	PhaseAttempting Phase = "Attempting"
	PhaseSolved     Phase = "Solved"
	PhaseExhausted  Phase = "Exhausted"
)

// ProblemBuilder turns a roster snapshot into a solver problem.
type ProblemBuilder interface {
	Build(spec *roster.Spec) (*solver.Problem, error)
}

// Recorder is notified of every attempt and of the end of every run.
type Recorder interface {
	ObserveAttempt(status solver.Status, duration time.Duration)
	ObserveOutcome(phase string, relaxed int)
}

// Attempt records one build and solve.
type Attempt struct {
	Number    int
	Relaxed   []string
	Status    solver.Status
	Conflicts []string
	Duration  time.Duration
}

// Outcome is the result of a successful run.
type Outcome struct {
	Phase Phase
	// Spec is the snapshot the accepted attempt solved.
	Spec       *roster.Spec
	Assignment solver.Assignment
	// Relaxed lists the employees whose carry-over exclusion was
	// lifted, in relaxation order.
	Relaxed []string
	// Order is the shuffled relaxation order, empty when the first
	// attempt succeeded.
	Order    []string
	Attempts []Attempt
}

// RelaxationExhausted reports that no attempt produced a roster.
type RelaxationExhausted struct {
	Order    []string
	Attempts []Attempt
}

func (e *RelaxationExhausted) Error() string {
	if len(e.Order) == 0 {
		return "no feasible roster and no carry-over exclusions to relax"
	}
	return fmt.Sprintf("no feasible roster under any relaxation of carry-over exclusions (%d attempts)", len(e.Attempts))
}

type Option func(controller *RelaxationController)

// WithRand sets the generator the relaxation order is drawn from.
func WithRand(rng *rand.Rand) Option {
	return func(controller *RelaxationController) {
		if rng != nil {
			controller.rng = rng
		}
	}
}

func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func WithLogger(logger *zap.Logger) Option {
	return func(controller *RelaxationController) {
		if logger != nil {
			controller.logger = logger
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(controller *RelaxationController) {
		if recorder != nil {
			controller.recorders = append(controller.recorders, recorder)
		}
	}
}

// RelaxationController solves a roster, lifting carry-over exclusions
// one employee at a time in a seeded random order until a roster exists
// or none are left to lift. Attempts run strictly one after another.
// The generator is not reseeded between runs, so a controller only
// reproduces an order on its first run.
type RelaxationController struct {
	builder   ProblemBuilder
	engine    solver.Engine
	rng       *rand.Rand
	logger    *zap.Logger
	recorders []Recorder
}

func NewRelaxationController(builder ProblemBuilder, engine solver.Engine, options ...Option) *RelaxationController {
	controller := &RelaxationController{
		builder: builder,
		engine:  engine,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(controller)
	}
	if controller.rng == nil {
		controller.rng = rand.New(rand.NewSource(DefaultSeed))
	}
	return controller
}

// Run drives spec to a solved roster. Configuration errors are returned
// as soon as they occur; a *RelaxationExhausted error means every
// attempt failed.
func (c *RelaxationController) Run(ctx context.Context, spec *roster.Spec) (*Outcome, error) {
	if spec == nil {
		return nil, &roster.ConfigurationError{Reason: "no roster"}
	}

	outcome := &Outcome{Phase: PhaseInitial}
	candidate := spec
	for {
		attempt, assignment, err := c.attempt(ctx, len(outcome.Attempts)+1, candidate)
		if err != nil {
			return nil, err
		}
		outcome.Attempts = append(outcome.Attempts, attempt)

		if attempt.Status == solver.Satisfied {
			outcome.Phase = PhaseSolved
			outcome.Spec = candidate
			outcome.Assignment = assignment
			outcome.Relaxed = candidate.Relaxed()
			c.finish(outcome.Phase, len(outcome.Relaxed))
			c.logger.Info("roster solved",
				zap.Int("attempts", len(outcome.Attempts)),
				zap.Strings("relaxed", outcome.Relaxed))
			return outcome, nil
		}

		if outcome.Phase == PhaseInitial {
			outcome.Order = c.relaxationOrder(spec)
			if len(outcome.Order) == 0 {
				return nil, c.exhausted(outcome)
			}
			outcome.Phase = PhaseAttempting
			c.logger.Info("relaxing carry-over exclusions", zap.Strings("order", outcome.Order))
		}

		k := len(outcome.Attempts)
		if k > len(outcome.Order) {
			return nil, c.exhausted(outcome)
		}
		candidate, err = spec.WithRelaxed(outcome.Order[:k]...)
		if err != nil {
			return nil, err
		}
	}
}

func (c *RelaxationController) relaxationOrder(spec *roster.Spec) []string {
	order := spec.CarryOver()
	c.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

func (c *RelaxationController) attempt(ctx context.Context, number int, spec *roster.Spec) (Attempt, solver.Assignment, error) {
	attempt := Attempt{Number: number, Relaxed: spec.Relaxed()}

	problem, err := c.builder.Build(spec)
	if err != nil {
		var cfgErr *roster.ConfigurationError
		if errors.As(err, &cfgErr) {
			return attempt, nil, err
		}
		return attempt, nil, fmt.Errorf("building attempt %d: %w", number, err)
	}

	result, err := c.engine.Solve(ctx, problem)
	if err != nil {
		return attempt, nil, fmt.Errorf("solving attempt %d: %w", number, err)
	}
	attempt.Status = result.Status
	attempt.Duration = result.Duration
	for _, conflict := range result.Conflicts {
		attempt.Conflicts = append(attempt.Conflicts, conflict.String())
	}

	for _, recorder := range c.recorders {
		recorder.ObserveAttempt(attempt.Status, attempt.Duration)
	}

	fields := []zap.Field{
		zap.Int("attempt", number),
		zap.Strings("relaxed", attempt.Relaxed),
		zap.Stringer("status", attempt.Status),
		zap.Duration("duration", attempt.Duration),
	}
	switch attempt.Status {
	case solver.Unknown:
		c.logger.Warn("solve attempt timed out", fields...)
	case solver.Unsatisfiable:
		c.logger.Info("solve attempt infeasible", append(fields, zap.Strings("conflicts", attempt.Conflicts))...)
	default:
		c.logger.Debug("solve attempt satisfied", fields...)
	}
	return attempt, result.Assignment, nil
}

func (c *RelaxationController) exhausted(outcome *Outcome) error {
	outcome.Phase = PhaseExhausted
	c.finish(outcome.Phase, len(outcome.Order))
	err := &RelaxationExhausted{Order: outcome.Order, Attempts: outcome.Attempts}
	c.logger.Error("relaxation exhausted", zap.Error(err))
	return err
}

func (c *RelaxationController) finish(phase Phase, relaxed int) {
	for _, recorder := range c.recorders {
		recorder.ObserveOutcome(string(phase), relaxed)
	}
}
