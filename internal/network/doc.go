// Package network is the immutable graph model of one blast network.
//
// Holes and connectors arrive as plain records from the surrounding
// application. Build validates them and packs them into an arena: every hole
// and connector gets a dense integer handle, and all indices (outgoing and
// incoming connectors per hole) are expressed in handles. A side table maps
// external string ids back to handles.
//
// Structural problems are load-time errors. A connector that names a hole
// which was not supplied makes Build fail with *InvalidGraphError; nothing is
// silently repaired. Cycles are accepted here and handled by the schedule
// calculator.
package network
