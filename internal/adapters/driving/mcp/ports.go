package mcp

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Session handles every chat and document intent.
	Session driving.SessionService

	// ServerURL is reported by check_connection. Optional.
	ServerURL string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
