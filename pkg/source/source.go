// Package source loads roster documents and resolves them into
// employees.
package source

import (
	"context"

	rosterv1alpha1 "github.com/perdasilva/dutyroster/api/v1alpha1"
)

// RosterSource provides a roster document.
type RosterSource interface {
	GetRoster(ctx context.Context) (*rosterv1alpha1.Roster, error)
}
