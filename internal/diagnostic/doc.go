// Package diagnostic provides structured errors and warnings for the
// enum conversion resolver.
//
// Key capabilities:
//   - Precise context per finding (enum, variant, optional field)
//   - Stable machine-readable codes for every failure mode
//   - Collection semantics: one resolution pass reports every problem,
//     never just the first one
package diagnostic
