// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Backend: The remote chat backend (health, chat, upload, delete)
//   - DocumentStore: Durable mirror of the DocumentSet
//   - PreferenceStore: Durable theme preference
//   - Presenter: One-way notifications to the presentation layer
//
// # Optional Interfaces
//
//   - ConfigStore: Persistent application configuration, used by the
//     config loader and the config command only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
