// Package tui provides an interactive terminal chat client for docchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session accepts every user intent and exposes state snapshots.
	Session driving.SessionService
}

// NewPorts creates a new Ports aggregate with the given session.
func NewPorts(session driving.SessionService) *Ports {
	return &Ports{Session: session}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
