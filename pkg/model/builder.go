// Package model turns a roster snapshot into a boolean feasibility
// problem.
package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/perdasilva/dutyroster/pkg/roster"
	"github.com/perdasilva/dutyroster/pkg/solver"
)

type Option func(builder *Builder)

// WithFamilies replaces the rule set.
func WithFamilies(families ...Family) Option {
	return func(builder *Builder) {
		builder.families = families
	}
}

// WithCrossSites sets the sites that must jointly cover every weekend,
// in the default rule set or in any CrossSiteCoverage passed to
// WithFamilies.
func WithCrossSites(sites ...string) Option {
	return func(builder *Builder) {
		builder.crossSites = sites
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(builder *Builder) {
		if logger != nil {
			builder.logger = logger
		}
	}
}

// Builder assembles the constraint problem for one attempt. It holds
// no per-attempt state and may be reused.
type Builder struct {
	families   []Family
	crossSites []string
	logger     *zap.Logger
}

func NewBuilder(options ...Option) *Builder {
	builder := &Builder{
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(builder)
	}
	if builder.families == nil {
		builder.families = DefaultFamilies(builder.crossSites...)
	} else if len(builder.crossSites) > 0 {
		families := make([]Family, len(builder.families))
		for i, family := range builder.families {
			if _, ok := family.(CrossSiteCoverage); ok {
				family = CrossSiteCoverage{Sites: builder.crossSites}
			}
			families[i] = family
		}
		builder.families = families
	}
	return builder
}

// Build creates fresh variables for spec and applies every family.
func (b *Builder) Build(spec *roster.Spec) (*solver.Problem, error) {
	if spec == nil {
		return nil, &roster.ConfigurationError{Reason: "no roster"}
	}
	if spec.SlotCount() == 0 {
		return nil, &roster.ConfigurationError{Reason: "weekend calendar is empty"}
	}
	if n := spec.SlotCount(); n != 4 && n != 5 {
		return nil, &roster.ConfigurationError{Reason: fmt.Sprintf("%d weekend slots, only 4 or 5 are supported", n)}
	}

	problem := &solver.Problem{
		Variables: Variables(spec),
	}
	for _, family := range b.families {
		cs := family.Constraints(spec)
		b.logger.Debug("applied constraint family",
			zap.String("family", family.Name()),
			zap.Int("constraints", len(cs)))
		problem.Constraints = append(problem.Constraints, cs...)
	}
	return problem, nil
}
