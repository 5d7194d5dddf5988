// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The metrics and dashboard stores keep their working copies in memory and
// write through the persistence Gateway, which owns change notification.
package services
