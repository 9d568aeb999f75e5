// Package storage persists the run history of scheduled events.
//
// Schedule state itself is never persisted: taskmill rebuilds the schedule
// from configuration on every start. History is observational only (what ran,
// when, how long, with what error) and feeds logs and operator tooling.
package storage
