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

package v1alpha1

// SupportedVersions is the semver range of roster documents this
// package reads.
const SupportedVersions = ">=1.0.0 <2.0.0"

// Flags are the optional per-employee eligibility switches. A nil flag
// keeps the value set by defaults or earlier rules.
type Flags struct {
	CanWorkSunday    *bool `json:"canWorkSunday,omitempty" yaml:"canWorkSunday,omitempty"`
	CanWorkAlone     *bool `json:"canWorkAlone,omitempty" yaml:"canWorkAlone,omitempty"`
	SundayRotation   *bool `json:"sundayRotation,omitempty" yaml:"sundayRotation,omitempty"`
	WorkedLastPeriod *bool `json:"workedLastPeriod,omitempty" yaml:"workedLastPeriod,omitempty"`
}

// Employee is one roster entry.
type Employee struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Site  string `json:"site" yaml:"site" validate:"required"`
	Flags `json:",inline" yaml:",inline"`
}

// Rule sets flags on every employee matched by Selector, an expression
// over `Employee` such as `Employee.Site == "OH"`.
type Rule struct {
	Selector string `json:"selector" yaml:"selector" validate:"required"`
	Set      Flags  `json:"set" yaml:"set"`
}

// Roster is the on-disk description of a month's roster. Year and Month
// select a calendar; Slots is used when no calendar is given.
type Roster struct {
	Version    string     `json:"version" yaml:"version" validate:"required"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Year       int        `json:"year,omitempty" yaml:"year,omitempty" validate:"omitempty,min=1"`
	Month      int        `json:"month,omitempty" yaml:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Slots      int        `json:"slots,omitempty" yaml:"slots,omitempty" validate:"omitempty,oneof=4 5"`
	CrossSites []string   `json:"crossSites,omitempty" yaml:"crossSites,omitempty" validate:"dive,required"`
	Employees  []Employee `json:"employees" yaml:"employees" validate:"required,min=1,dive"`
	Rules      []Rule     `json:"rules,omitempty" yaml:"rules,omitempty" validate:"dive"`
}

// Bool returns a pointer to b, for building Flags.
func Bool(b bool) *bool {
	return &b
}
