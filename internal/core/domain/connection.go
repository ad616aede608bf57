package domain

// ConnectionState is the binary reachability status of the backend.
// It gates every network-dependent operation.
type ConnectionState int

const (
	// Disconnected is the initial state and the state after any failed
	// health probe or chat turn.
	Disconnected ConnectionState = iota

	// Connected is entered only after a successful health probe.
	Connected
)

// IsConnected returns true if the backend is considered reachable.
func (s ConnectionState) IsConnected() bool {
	return s == Connected
}

// String returns the string representation of the state.
func (s ConnectionState) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
