// Package analysis derives descriptive structure from a computed schedule:
// causal waves, simultaneous-detonation conflicts, cycles, validation
// findings and timeline markers. Everything here is a pure function of its
// input.
package analysis
