// Package driver is the tick loop that periodically polls the schedule and
// launches due events.
//
// # Overview
//
// The core due-time evaluation (internal/schedule) is pure; this service
// supplies the clock. A robfig/cron instance fires a configurable tick
// (default once per minute) in the configured timezone; on each tick every
// due event is launched on its own goroutine.
//
// # Concurrency and overlap
//
// Different events run concurrently without coordination. Runs of the same
// event are serialized: if an event is still running when it comes due
// again, the new run is skipped and logged.
//
// # Lifecycle
//
// Start/Stop can be called repeatedly (e.g. across config reloads). Apply
// swaps in a freshly built schedule without restarting the tick loop.
package driver
