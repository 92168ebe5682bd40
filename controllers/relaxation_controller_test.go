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
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/perdasilva/dutyroster/pkg/model"
	"github.com/perdasilva/dutyroster/pkg/roster"
	"github.com/perdasilva/dutyroster/pkg/roster/rostertest"
	"github.com/perdasilva/dutyroster/pkg/solver"
)

type recordingBuilder struct {
	inner   ProblemBuilder
	relaxed [][]string
}

func (b *recordingBuilder) Build(spec *roster.Spec) (*solver.Problem, error) {
	b.relaxed = append(b.relaxed, spec.Relaxed())
	return b.inner.Build(spec)
}

type countingEngine struct {
	inner solver.Engine
	calls int
}

func (e *countingEngine) Solve(ctx context.Context, problem *solver.Problem) (*solver.Result, error) {
	e.calls++
	return e.inner.Solve(ctx, problem)
}

// scriptedEngine answers with the scripted statuses in turn and repeats
// the last one once the script runs out.
type scriptedEngine struct {
	statuses []solver.Status
	calls    int
}

func (e *scriptedEngine) Solve(_ context.Context, _ *solver.Problem) (*solver.Result, error) {
	status := e.statuses[len(e.statuses)-1]
	if e.calls < len(e.statuses) {
		status = e.statuses[e.calls]
	}
	e.calls++
	result := &solver.Result{Status: status, Duration: time.Millisecond}
	if status == solver.Satisfied {
		result.Assignment = solver.Assignment{}
	}
	return result, nil
}

type failingBuilder struct{}

func (failingBuilder) Build(_ *roster.Spec) (*solver.Problem, error) {
	return nil, &roster.ConfigurationError{Reason: "broken"}
}

type fakeRecorder struct {
	attempts []solver.Status
	outcomes []string
}

func (r *fakeRecorder) ObserveAttempt(status solver.Status, _ time.Duration) {
	r.attempts = append(r.attempts, status)
}

func (r *fakeRecorder) ObserveOutcome(phase string, _ int) {
	r.outcomes = append(r.outcomes, phase)
}

func sundays(a solver.Assignment, name string, slots int) int {
	n := 0
	for slot := 1; slot <= slots; slot++ {
		if a.Value(model.SundayVar(name, slot)) {
			n++
		}
	}
	return n
}

func saturdays(a solver.Assignment, name string, slots int) int {
	n := 0
	for slot := 1; slot <= slots; slot++ {
		if a.Value(model.SaturdayVar(name, slot)) {
			n++
		}
	}
	return n
}

var _ = Describe("RelaxationController", func() {
	var (
		ctx      context.Context
		builder  *recordingBuilder
		engine   *countingEngine
		recorder *fakeRecorder
	)

	BeforeEach(func() {
		ctx = context.Background()
		builder = &recordingBuilder{inner: model.NewBuilder()}
		engine = &countingEngine{inner: solver.New(solver.WithTimeout(30 * time.Second))}
		recorder = &fakeRecorder{}
	})

	Context("with the reference roster", func() {
		var spec *roster.Spec

		BeforeEach(func() {
			spec = rostertest.Spec(rostertest.Employees(), rostertest.Slots(4))
		})

		It("solves on the first attempt without relaxing anyone", func() {
			outcome, err := NewRelaxationController(builder, engine, WithRecorder(recorder)).Run(ctx, spec)
			Expect(err).NotTo(HaveOccurred())

			Expect(outcome.Phase).To(Equal(PhaseSolved))
			Expect(outcome.Attempts).To(HaveLen(1))
			Expect(outcome.Relaxed).To(BeEmpty())
			Expect(outcome.Order).To(BeEmpty())
			Expect(outcome.Spec).To(BeIdenticalTo(spec))
			Expect(engine.calls).To(Equal(1))

			for _, name := range []string{"Duong", "KietDinh"} {
				Expect(sundays(outcome.Assignment, name, 4)).To(Equal(2), name)
				Expect(saturdays(outcome.Assignment, name, 4)).To(Equal(0), name)
			}
			for _, name := range []string{"Bao", "Thinh", "Hoa", "Duong"} {
				Expect(outcome.Assignment.Count(model.DutyVars(name, 1)...)).To(Equal(0), name)
			}

			Expect(recorder.attempts).To(Equal([]solver.Status{solver.Satisfied}))
			Expect(recorder.outcomes).To(Equal([]string{string(PhaseSolved)}))
		})

		It("relaxes cumulatively in seeded order until every prefix is tried", func() {
			scripted := &scriptedEngine{statuses: []solver.Status{solver.Unsatisfiable}}
			_, err := NewRelaxationController(builder, scripted, WithSeed(7), WithRecorder(recorder)).Run(ctx, spec)

			var exhausted *RelaxationExhausted
			Expect(errors.As(err, &exhausted)).To(BeTrue())

			expected := spec.CarryOver()
			rng := rand.New(rand.NewSource(7))
			rng.Shuffle(len(expected), func(i, j int) {
				expected[i], expected[j] = expected[j], expected[i]
			})
			Expect(exhausted.Order).To(Equal(expected))
			Expect(exhausted.Attempts).To(HaveLen(5))
			Expect(scripted.calls).To(Equal(5))

			Expect(builder.relaxed).To(HaveLen(5))
			Expect(builder.relaxed[0]).To(BeEmpty())
			for k := 1; k < 5; k++ {
				Expect(builder.relaxed[k]).To(Equal(expected[:k]))
			}
			Expect(recorder.outcomes).To(Equal([]string{string(PhaseExhausted)}))
		})

		It("treats an unknown status like an infeasible one", func() {
			scripted := &scriptedEngine{statuses: []solver.Status{solver.Unknown, solver.Satisfied}}
			outcome, err := NewRelaxationController(builder, scripted).Run(ctx, spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Phase).To(Equal(PhaseSolved))
			Expect(outcome.Attempts).To(HaveLen(2))
			Expect(outcome.Attempts[0].Status).To(Equal(solver.Unknown))
			Expect(outcome.Relaxed).To(Equal(outcome.Order[:1]))
		})

		It("is deterministic for a fixed seed", func() {
			flagged := rostertest.Spec(rostertest.Flag(rostertest.Employees(), "Khai"), rostertest.Slots(4))

			first, err := NewRelaxationController(model.NewBuilder(), solver.New(), WithSeed(DefaultSeed)).Run(ctx, flagged)
			Expect(err).NotTo(HaveOccurred())
			second, err := NewRelaxationController(model.NewBuilder(), solver.New()).Run(ctx, flagged)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Order).To(Equal(first.Order))
			Expect(second.Relaxed).To(Equal(first.Relaxed))
			Expect(second.Assignment).To(Equal(first.Assignment))
		})
	})

	Context("when the first weekend leaves a site uncovered", func() {
		var spec *roster.Spec

		BeforeEach(func() {
			// With Khai also carried over, nobody from FLE can work the
			// first Saturday until Hoa or Khai is relaxed.
			spec = rostertest.Spec(rostertest.Flag(rostertest.Employees(), "Khai"), rostertest.Slots(4))
		})

		It("stops at the first prefix that frees an FLE Saturday worker", func() {
			outcome, err := NewRelaxationController(builder, engine, WithSeed(DefaultSeed)).Run(ctx, spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Phase).To(Equal(PhaseSolved))
			Expect(outcome.Order).To(ConsistOf("Bao", "Thinh", "Hoa", "Khai", "Duong"))

			k := 0
			for i, name := range outcome.Order {
				if name == "Hoa" || name == "Khai" {
					k = i + 1
					break
				}
			}
			Expect(outcome.Relaxed).To(Equal(outcome.Order[:k]))
			Expect(outcome.Attempts).To(HaveLen(k + 1))
			Expect(engine.calls).To(Equal(k + 1))
			for _, attempt := range outcome.Attempts[:k] {
				Expect(attempt.Status).To(Equal(solver.Unsatisfiable))
				Expect(attempt.Conflicts).NotTo(BeEmpty())
			}

			relaxed := map[string]bool{}
			for _, name := range outcome.Relaxed {
				relaxed[name] = true
			}
			for _, name := range spec.CarryOver() {
				if !relaxed[name] {
					Expect(outcome.Assignment.Count(model.DutyVars(name, 1)...)).To(Equal(0), name)
				}
			}
			Expect(outcome.Spec.CarryOver()).To(HaveLen(5 - k))
			Expect(spec.CarryOver()).To(HaveLen(5))
		})
	})

	Context("when nobody carries over", func() {
		It("fails immediately without retrying", func() {
			employees := rostertest.Clear(rostertest.Employees())
			for i := range employees {
				employees[i].CanWorkSunday = false
				employees[i].SundayRotation = false
			}
			spec := rostertest.Spec(employees, rostertest.Slots(4))

			outcome, err := NewRelaxationController(builder, engine).Run(ctx, spec)
			Expect(outcome).To(BeNil())

			var exhausted *RelaxationExhausted
			Expect(errors.As(err, &exhausted)).To(BeTrue())
			Expect(exhausted.Order).To(BeEmpty())
			Expect(exhausted.Attempts).To(HaveLen(1))
			Expect(exhausted.Attempts[0].Status).To(Equal(solver.Unsatisfiable))
			Expect(engine.calls).To(Equal(1))
			Expect(err.Error()).To(ContainSubstring("no carry-over exclusions to relax"))
		})
	})

	Context("with a configuration error", func() {
		It("returns it before solving", func() {
			spec := rostertest.Spec(rostertest.Employees(), rostertest.Slots(4))
			outcome, err := NewRelaxationController(failingBuilder{}, engine).Run(ctx, spec)
			Expect(outcome).To(BeNil())

			var cfgErr *roster.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(engine.calls).To(Equal(0))
		})

		It("rejects a missing roster", func() {
			_, err := NewRelaxationController(builder, engine).Run(ctx, nil)
			var cfgErr *roster.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
		})
	})

	Context("when the context is cancelled", func() {
		It("returns the engine error instead of relaxing", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			spec := rostertest.Spec(rostertest.Employees(), rostertest.Slots(4))

			_, err := NewRelaxationController(builder, engine).Run(cancelled, spec)
			Expect(err).To(MatchError(context.Canceled))
			var exhausted *RelaxationExhausted
			Expect(errors.As(err, &exhausted)).To(BeFalse())
		})
	})
})
