// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services hold no global state: every instance is constructed explicitly
// and independent instances never share maps, so tests can run them in
// isolation.
package services
