// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - IndexStore: index shard persistence (JSON files)
//   - RegulationsClient: the upstream eRegulations REST API
//   - NotificationSink: per-client delivery of resource updates
//   - AuthStore: user and API key persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ResponseCache: upstream response caching. Without it every fetch
//     goes to the network.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
