// Package signals implements the reactive cells backing service state.
//
// A Signal holds one mutable value. A Computed derives a read-only value from
// explicitly declared upstream cells. An Effect runs a callback on every
// upstream change. Writes are synchronous and notification happens before Set
// returns, so a test (or a handler) that writes a signal can immediately read
// every downstream consequence.
//
// Dependencies are declared, never inferred: Derive and Effect take their
// sources as arguments. This trades the implicit read-tracking found in
// browser signal libraries for wiring that is visible at the call site and
// safe under Go's concurrency model.
package signals
