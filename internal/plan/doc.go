// Package plan provides the mapping resolver and the conversion plan IR it
// produces for code generation.
//
// Resolution pipeline, per declared conversion:
//  1. Expand each variant directive into candidate (enum, variant) pairs
//     (bare markers default over the enum-level with list)
//  2. Check that every candidate exists in the shape registry
//  3. Check shape compatibility and resolve the field correspondence
//     (overrides first, identical names otherwise)
//  4. Reject double claims of one source variant within one plan
//  5. Check totality and assemble rules in claim order
//
// Resolution is a pure function of (shape registry, directive file): no I/O,
// no shared state, and deterministic output. All problems found in one pass
// are collected and reported together.
package plan
