// Package canonical produces RFC 8785 canonical JSON and content fingerprints
// for schedules, frames and event timelines.
//
// Fingerprints are the basis of the determinism checks: two computations over
// the same network must produce byte-identical canonical encodings, and
// therefore identical hashes.
//
// Key design constraints:
//   - NO floats (callers convert times to integer milliseconds or microseconds)
//   - NO null values
//   - Object keys ordered by UTF-16 code units, strings NFC normalized
package canonical
