// Package sim drives the animation of a computed schedule.
//
// A Driver owns one Session at a time. The host advances it by calling Tick
// with the wall-clock time elapsed since the previous call; each Tick returns
// a complete, immutable Frame. Nothing runs in the background.
//
// Hole state machine:
//
//	READY -> DETONATING -> BLASTED
//
// A hole detonates when the clock reaches its activation time and is blasted
// ActivationWindowMs later. Connector state machine:
//
//	INACTIVE -> PROPAGATING -> TRANSMITTED
//
// keyed off the connector's signal window. States are pure functions of the
// clock, so no transition ever reverses while the clock moves forward.
//
// Reset discards the session and starts a fresh one from the same schedule.
// The frame sequence after Reset is identical to the first run; see
// VerifyDeterminism.
package sim
