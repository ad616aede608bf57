// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// A Session owns every piece of mutable client state: the connection
// state, the DocumentSet, the transcript, the theme and the set of
// in-flight operations. The ConnectivityMonitor, DocumentSync,
// ChatController and PreferenceService are thin views over one Session.
//
// Services are pure Go with no CGO dependencies.
package services
