// Package domain defines the core business entities for eRegs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Kind / IndexEntry: the four indexed entity categories and their entries
//   - Subscription / CompilePattern: resource subscriptions and pattern matching
//   - Intent: the structured result of routing a free-text query
//   - Settings: runtime configuration
//   - User / APIKey / Token: authentication records
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
