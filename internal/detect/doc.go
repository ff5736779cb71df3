// Package detect implements the geometric core of the armor detection
// pipeline: extracting bright rectangular light strips from a frame and
// pairing them into candidate armor plates.
//
// # Pipeline position
//
// detect sits between raw frame acquisition (the caller's concern) and
// numeral classification (package classify). Per frame it produces:
//
//  1. Lights: rotated rectangles fitted to connected bright regions,
//     filtered by aspect ratio and tilt, tagged red or blue.
//  2. Armors: same-color light pairs that satisfy the geometric
//     constraints of a physical armor plate (length ratio, normalized
//     center distance, axis alignment), classified small or large.
//
// All values are frame-scoped: a Light or Armor is created, consumed and
// discarded within one Detect call. Nothing in this package retains state
// between frames.
//
// # Measurements
//
// Both stages additionally report per-candidate measurements (including
// rejected candidates) so a caller can forward them as debug telemetry.
// The measurements never influence detection itself.
package detect
