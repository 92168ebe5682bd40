package source

import (
	"fmt"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/blang/semver/v4"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	rosterv1alpha1 "github.com/perdasilva/dutyroster/api/v1alpha1"
	"github.com/perdasilva/dutyroster/pkg/roster"
)

// UnsupportedVersion reports a document outside the supported range.
type UnsupportedVersion struct {
	Version string
}

func (e UnsupportedVersion) Error() string {
	return fmt.Sprintf("roster document version %q is not in supported range %q", e.Version, rosterv1alpha1.SupportedVersions)
}

var supportedRange = semver.MustParseRange(rosterv1alpha1.SupportedVersions)

// Resolver turns roster documents into employees.
type Resolver struct {
	validate *validator.Validate
	logger   *zap.Logger
}

func NewResolver(validate *validator.Validate, logger *zap.Logger) *Resolver {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		validate: validate,
		logger:   logger,
	}
}

type compiledRule struct {
	selector string
	program  *vm.Program
	set      rosterv1alpha1.Flags
}

// Resolve checks the document and returns its employees in document
// order. Flags start from their defaults, then every matching rule is
// applied in order, and explicit per-employee flags win last.
func (r *Resolver) Resolve(doc *rosterv1alpha1.Roster) ([]roster.Employee, error) {
	if doc == nil {
		return nil, fmt.Errorf("no roster document")
	}
	version, err := semver.ParseTolerant(doc.Version)
	if err != nil {
		return nil, fmt.Errorf("parse roster document version: %w", err)
	}
	if !supportedRange(version) {
		return nil, UnsupportedVersion{Version: doc.Version}
	}
	if err := r.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid roster document: %w", err)
	}

	rules, err := compileRules(doc.Rules)
	if err != nil {
		return nil, err
	}

	employees := make([]roster.Employee, 0, len(doc.Employees))
	for _, entry := range doc.Employees {
		employee := roster.NewEmployee(entry.Name, entry.Site)
		for _, rule := range rules {
			matched, err := rule.matches(employee)
			if err != nil {
				return nil, err
			}
			if matched {
				r.logger.Debug("rule matched",
					zap.String("selector", rule.selector),
					zap.String("employee", employee.Name))
				applyFlags(&employee, rule.set)
			}
		}
		applyFlags(&employee, entry.Flags)
		employees = append(employees, employee)
	}
	return employees, nil
}

func compileRules(rules []rosterv1alpha1.Rule) ([]compiledRule, error) {
	env := map[string]interface{}{
		"Employee": roster.Employee{},
	}
	var errs error
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		program, err := expr.Compile(rule.Selector, expr.Env(env), expr.AsBool())
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rule %q: %w", rule.Selector, err))
			continue
		}
		compiled = append(compiled, compiledRule{
			selector: rule.Selector,
			program:  program,
			set:      rule.Set,
		})
	}
	if errs != nil {
		return nil, errs
	}
	return compiled, nil
}

func (r compiledRule) matches(employee roster.Employee) (bool, error) {
	output, err := expr.Run(r.program, map[string]interface{}{
		"Employee": employee,
	})
	if err != nil {
		return false, fmt.Errorf("rule %q on %s: %w", r.selector, employee.Name, err)
	}
	matched, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("rule %q did not evaluate to a boolean", r.selector)
	}
	return matched, nil
}

func applyFlags(employee *roster.Employee, flags rosterv1alpha1.Flags) {
	if flags.CanWorkSunday != nil {
		employee.CanWorkSunday = *flags.CanWorkSunday
	}
	if flags.CanWorkAlone != nil {
		employee.CanWorkAlone = *flags.CanWorkAlone
	}
	if flags.SundayRotation != nil {
		employee.SundayRotation = *flags.SundayRotation
	}
	if flags.WorkedLastPeriod != nil {
		employee.WorkedLastPeriod = *flags.WorkedLastPeriod
	}
}
