// Package store provides a SQLite-backed archive of schedule runs.
//
// Each run records the input network, its activations and connector windows,
// the event timeline and the aggregate metrics, written in a single
// transaction under a run id.
//
// # Ordering
//
// Runs, activations, windows and events carry an integer seq or ord column
// assigned at write time. Every query orders by it, never by wall-clock
// time, so reads are identical across processes.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
