// Package pipeline orchestrates one frame of armor detection: snapshot
// the configuration, extract lights, match pairs, classify numerals, and
// optionally back-project armor centers through a depth map.
//
// The pipeline keeps no cross-frame state. Zero lights and zero armors
// are ordinary empty results; only a malformed frame fails. Alongside the
// armor list it emits a Debug record (raw measurements and per-stage
// timings) as a pure side channel for the caller's telemetry.
package pipeline
