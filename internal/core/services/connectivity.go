package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ConnectivityMonitor implements the interface.
var _ driving.ConnectivityMonitor = (*ConnectivityMonitor)(nil)

// ConnectivityMonitor tracks backend reachability for a session.
// Any failed probe, whatever its cause, degrades to Disconnected.
type ConnectivityMonitor struct {
	session *Session
}

// Probe performs one health check and updates the connection state.
// It renders no chat messages.
func (m *ConnectivityMonitor) Probe(ctx context.Context) domain.ConnectionState {
	state, _ := m.probe(ctx)
	return state
}

// State returns the current connection state without probing.
func (m *ConnectivityMonitor) State() domain.ConnectionState {
	return m.session.State()
}

// probe runs the health check and returns the failure, if any.
func (m *ConnectivityMonitor) probe(ctx context.Context) (domain.ConnectionState, error) {
	s := m.session
	if err := s.checkOpen(); err != nil {
		return domain.Disconnected, err
	}

	logger.Debug("probing %s", s.backend.BaseURL())
	if err := s.backend.Health(ctx); err != nil {
		logger.Warn("health probe failed: %v", err)
		s.setState(domain.Disconnected)
		return domain.Disconnected, err
	}

	s.setState(domain.Connected)
	return domain.Connected, nil
}

// announcedProbe wraps a probe in a placeholder message that is rewritten
// with the outcome.
func (m *ConnectivityMonitor) announcedProbe(ctx context.Context) domain.ConnectionState {
	s := m.session
	if err := s.checkOpen(); err != nil {
		return domain.Disconnected
	}

	placeholder := s.say(domain.OriginBot, textProbing)

	state, err := m.probe(ctx)
	if err != nil {
		s.rewrite(placeholder.ID, domain.OriginError, probeFailureText(err, s.backend.BaseURL()))
		return state
	}

	s.rewrite(placeholder.ID, domain.OriginBot, textConnected)
	return state
}

// probeFailureText distinguishes an answering server from an unreachable one.
func probeFailureText(err error, baseURL string) string {
	if se, ok := domain.AsServerError(err); ok {
		return fmt.Sprintf(textProbeServerError, se.StatusCode)
	}
	return fmt.Sprintf(textProbeUnreachable, baseURL)
}
