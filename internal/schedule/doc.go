// Package schedule computes first-arrival activation times for a blast network.
//
// Propagation is a FIFO relaxation from the root set. A hole's activation time
// is only ever replaced by a strictly smaller candidate, which bounds the work
// even when bad input contains cycles.
//
// Root selection, in priority order:
//  1. sources of connectors flagged is_root
//  2. sources that are never a connector target
//  3. the source of the first connector (reported as DEGENERATE_ROOT_SELECTION)
//
// A Schedule is immutable once Compute returns and may be read from multiple
// goroutines.
package schedule
